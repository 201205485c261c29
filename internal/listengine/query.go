package listengine

import (
	"github.com/idilsaglam/longread/internal/model"
)

// Index returns the sequence position of the item with id, or -1.
func Index(l model.List, id string) int {
	for i, it := range l.Items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func Find(l model.List, id string) (model.ListItem, bool) {
	if i := Index(l, id); i >= 0 {
		return l.Items[i], true
	}
	return model.ListItem{}, false
}

// Children returns the items directly under parentID in sequence order.
func Children(l model.List, parentID string) []model.ListItem {
	var out []model.ListItem
	for _, it := range l.Items {
		if it.ParentID == parentID {
			out = append(out, it)
		}
	}
	return out
}

func Siblings(l model.List, it model.ListItem) []model.ListItem {
	return Children(l, it.ParentID)
}

func IsFirstSibling(l model.List, it model.ListItem) bool {
	sib := Siblings(l, it)
	return len(sib) > 0 && sib[0].ID == it.ID
}

func IsLastSibling(l model.List, it model.ListItem) bool {
	sib := Siblings(l, it)
	return len(sib) > 0 && sib[len(sib)-1].ID == it.ID
}

// Depth is 1 for top-level items. It returns 0 for items not reachable from
// the list (missing or orphaned).
func Depth(l model.List, it model.ListItem) int {
	depth := 1
	parent := it.ParentID
	for steps := 0; steps <= len(l.Items); steps++ {
		if parent == l.ID {
			return depth
		}
		p, ok := Find(l, parent)
		if !ok {
			return 0
		}
		parent = p.ParentID
		depth++
	}
	return 0
}

// Visit is called by Walk for every reachable item. index is the position
// among the item's siblings. Returning false stops the walk.
type Visit func(it model.ListItem, depth, index int) bool

// Walk traverses the tree depth-first from the list root in sibling order.
func Walk(l model.List, fn Visit) {
	seen := make(map[string]bool, len(l.Items))
	var walk func(parentID string, depth int) bool
	walk = func(parentID string, depth int) bool {
		for i, it := range Children(l, parentID) {
			if seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			if !fn(it, depth, i) {
				return false
			}
			if !walk(it.ID, depth+1) {
				return false
			}
		}
		return true
	}
	walk(l.ID, 1)
}

// Orphans returns items whose parent is neither the list nor a present item.
func Orphans(l model.List) []model.ListItem {
	present := make(map[string]bool, len(l.Items)+1)
	present[l.ID] = true
	for _, it := range l.Items {
		present[it.ID] = true
	}
	var out []model.ListItem
	for _, it := range l.Items {
		if !present[it.ParentID] {
			out = append(out, it)
		}
	}
	return out
}
