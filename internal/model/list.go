package model

// ListItem is one entry of a nested list. ParentID is either the owning
// list's ID (top-level entry) or the ID of another item in the same list.
type ListItem struct {
	ID       string `json:"id"`
	ParentID string `json:"parentId"`
	Value    string `json:"value"`
}

type ListSettings struct {
	Ordered bool `json:"ordered"`
}

// List is a nested list stored flat: Items order is render order, and the
// tree is recovered by following ParentID.
type List struct {
	ID       string       `json:"id"`
	Title    string       `json:"title"`
	Settings ListSettings `json:"settings"`
	Items    []ListItem   `json:"items"`
}
