package model

import "encoding/json"

// ElementType names the kind of a longread block.
type ElementType string

const (
	ElementText  ElementType = "text"
	ElementImage ElementType = "image"
	ElementList  ElementType = "list"
	ElementPanel ElementType = "panel"
	ElementVideo ElementType = "video"
	ElementPage  ElementType = "page"
	ElementCode  ElementType = "code"
)

// ElementTypes lists every known block type in menu order.
var ElementTypes = []ElementType{
	ElementText, ElementImage, ElementList, ElementPanel, ElementVideo, ElementPage, ElementCode,
}

func (t ElementType) Valid() bool {
	for _, x := range ElementTypes {
		if x == t {
			return true
		}
	}
	return false
}

// Panel backgrounds understood by the renderer.
const (
	PanelGrey        = "grey"
	PanelGreenBlue   = "green-blue"
	PanelBlackFrame  = "black-frame"
	PanelRedFrame    = "red-frame"
	DefaultIndentPx  = 24
	ContentVersion   = 1
	MaxTitleLen      = 250
	MaxDescrLen      = 255
	MaxPanelBadgeLen = 64
)

// Settings is shared by every block; type-specific keys are omitted when unset.
type Settings struct {
	Indent int    `json:"indent"`
	Anchor string `json:"anchor,omitempty"`

	// list
	Ordered bool `json:"ordered,omitempty"`

	// image
	Width  int  `json:"width,omitempty"`
	Border bool `json:"border,omitempty"`

	// panel
	Background string `json:"background,omitempty"`
	Icon       string `json:"icon,omitempty"`
}

type Image struct {
	URL string `json:"url"`
	ID  *int   `json:"id,omitempty"`
}

type LessonResource struct {
	Title   string `json:"title"`
	VideoID string `json:"videoId"`
	URL     string `json:"url"`
	ID      *int   `json:"id,omitempty"`
}

// Element is one typed block of a longread. Only the fields of its Type are
// meaningful; the rest stay zero and are dropped from the JSON.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Settings Settings    `json:"settings"`

	// text
	Value string `json:"value,omitempty"`

	// list, panel
	Title string     `json:"title,omitempty"`
	Items []ListItem `json:"items,omitempty"`

	// panel
	Badge   string `json:"badge,omitempty"`
	Content string `json:"content,omitempty"`
	Caption string `json:"caption,omitempty"`

	// image
	Images []Image `json:"images,omitempty"`

	// video
	LessonResource *LessonResource `json:"lessonResource,omitempty"`
	Description    string          `json:"description,omitempty"`
}

// MarshalJSON writes settings.ordered on list blocks even when false, and
// leaves it out for every other block type.
func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	type settings struct {
		Settings
		Ordered *bool `json:"ordered,omitempty"`
	}
	out := struct {
		ID       string      `json:"id"`
		Type     ElementType `json:"type"`
		Settings settings    `json:"settings"`
		plain
	}{ID: e.ID, Type: e.Type, Settings: settings{Settings: e.Settings}, plain: plain(e)}
	if e.Type == ElementList {
		out.Settings.Ordered = &e.Settings.Ordered
	}
	return json.Marshal(out)
}

// AsList views a list block as the list engine's value.
func (e Element) AsList() List {
	return List{
		ID:       e.ID,
		Title:    e.Title,
		Settings: ListSettings{Ordered: e.Settings.Ordered},
		Items:    e.Items,
	}
}

// WithList returns a copy of e carrying l's title, ordering and items.
func (e Element) WithList(l List) Element {
	e.Title = l.Title
	e.Settings.Ordered = l.Settings.Ordered
	e.Items = l.Items
	return e
}

// Document is the longread as edited and persisted.
type Document struct {
	Title                   string    `json:"title"`
	Version                 int       `json:"version"`
	InternalDescription     string    `json:"internalDescription"`
	ApproximateProgressTime *int      `json:"approximateProgressTime"`
	ReusableContentEnabled  bool      `json:"reusableContentEnabled"`
	IsGoogleLinkUpdated     bool      `json:"isGoogleLinkUpdated"`
	Elements                []Element `json:"longreadElements"`

	// RemoteID is the backend id once the document has been pushed.
	RemoteID int `json:"remoteId,omitempty"`
}
