// Package document holds the block-level transitions of a longread: adding,
// reordering, copying and removing typed elements. Like the list engine,
// every transition returns the document plus whether it changed, and never
// mutates the input's element slice.
package document

import (
	"slices"
	"strings"

	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/listengine"
	"github.com/idilsaglam/longread/internal/model"
)

// Options tune a freshly created element.
type Options struct {
	Ordered bool // list numbering
}

// New returns an empty document at the current content version.
func New(title string) model.Document {
	return model.Document{Title: title, Version: model.ContentVersion}
}

// NewElement returns a block of type t with defaults filled in.
func NewElement(t model.ElementType, opt Options) model.Element {
	el := model.Element{
		Type:     t,
		Settings: model.Settings{Indent: model.DefaultIndentPx},
	}
	if t == model.ElementList {
		// the block id doubles as the list id top-level items point at
		l := listengine.New(opt.Ordered)
		el.ID = l.ID
		return el.WithList(l)
	}
	el.ID = ids.New()
	switch t {
	case model.ElementImage:
		el.Images = []model.Image{{}}
		el.Settings.Width = 100
	case model.ElementPanel:
		el.Settings.Background = model.PanelGrey
	case model.ElementVideo:
		el.LessonResource = &model.LessonResource{}
	}
	return el
}

// Index returns the position of the element with id, or -1.
func Index(doc model.Document, id string) int {
	return slices.IndexFunc(doc.Elements, func(e model.Element) bool { return e.ID == id })
}

func Find(doc model.Document, id string) (model.Element, bool) {
	if i := Index(doc, id); i >= 0 {
		return doc.Elements[i], true
	}
	return model.Element{}, false
}

// Add appends el.
func Add(doc model.Document, el model.Element) model.Document {
	doc.Elements = append(slices.Clone(doc.Elements), el)
	return doc
}

// AddAfter inserts el right after the element anchorID.
func AddAfter(doc model.Document, anchorID string, el model.Element) (model.Document, bool) {
	i := Index(doc, anchorID)
	if i < 0 {
		return doc, false
	}
	doc.Elements = slices.Insert(slices.Clone(doc.Elements), i+1, el)
	return doc, true
}

// Change replaces the element sharing el's id.
func Change(doc model.Document, el model.Element) (model.Document, bool) {
	i := Index(doc, el.ID)
	if i < 0 {
		return doc, false
	}
	elements := slices.Clone(doc.Elements)
	elements[i] = el
	doc.Elements = elements
	return doc, true
}

// ChangeList stores a list engine result back into its block.
func ChangeList(doc model.Document, l model.List) (model.Document, bool) {
	el, ok := Find(doc, l.ID)
	if !ok || el.Type != model.ElementList {
		return doc, false
	}
	return Change(doc, el.WithList(l))
}

func Up(doc model.Document, id string) (model.Document, bool) {
	i := Index(doc, id)
	if i <= 0 {
		return doc, false
	}
	return swap(doc, i, i-1), true
}

func Down(doc model.Document, id string) (model.Document, bool) {
	i := Index(doc, id)
	if i < 0 || i == len(doc.Elements)-1 {
		return doc, false
	}
	return swap(doc, i, i+1), true
}

func swap(doc model.Document, i, j int) model.Document {
	elements := slices.Clone(doc.Elements)
	elements[i], elements[j] = elements[j], elements[i]
	doc.Elements = elements
	return doc
}

func Delete(doc model.Document, id string) (model.Document, bool) {
	i := Index(doc, id)
	if i < 0 {
		return doc, false
	}
	doc.Elements = slices.Delete(slices.Clone(doc.Elements), i, i+1)
	return doc, true
}

// Copy inserts a duplicate of the element id right after it. The duplicate
// and all of its list items get fresh ids.
func Copy(doc model.Document, id string) (model.Document, bool) {
	el, ok := Find(doc, id)
	if !ok {
		return doc, false
	}
	return AddAfter(doc, id, clone(el))
}

func clone(el model.Element) model.Element {
	out := el
	out.ID = ids.New()
	out.Images = slices.Clone(el.Images)
	if el.LessonResource != nil {
		lr := *el.LessonResource
		out.LessonResource = &lr
	}
	if len(el.Items) > 0 {
		remap := map[string]string{el.ID: out.ID}
		for _, it := range el.Items {
			remap[it.ID] = ids.New()
		}
		out.Items = make([]model.ListItem, len(el.Items))
		for i, it := range el.Items {
			parent, ok := remap[it.ParentID]
			if !ok {
				parent = it.ParentID
			}
			out.Items[i] = model.ListItem{ID: remap[it.ID], ParentID: parent, Value: it.Value}
		}
	}
	return out
}

// Move puts the dragged element dragID at the position of dropID, shifting
// the elements in between by one.
func Move(doc model.Document, dropID, dragID string) (model.Document, bool) {
	from, to := Index(doc, dragID), Index(doc, dropID)
	if from < 0 || to < 0 || from == to {
		return doc, false
	}
	el := doc.Elements[from]
	elements := slices.Delete(slices.Clone(doc.Elements), from, from+1)
	doc.Elements = slices.Insert(elements, to, el)
	return doc, true
}

// IsEmpty reports whether el has nothing to show to a reader.
func IsEmpty(el model.Element) bool {
	switch el.Type {
	case model.ElementText:
		return blank(el.Value)
	case model.ElementList:
		for _, it := range el.Items {
			if !blank(it.Value) {
				return false
			}
		}
		return blank(el.Title)
	case model.ElementPanel:
		return blank(el.Badge) && blank(el.Title) && blank(el.Content) && blank(el.Caption)
	case model.ElementImage:
		for _, img := range el.Images {
			if !blank(img.URL) {
				return false
			}
		}
		return true
	case model.ElementVideo:
		return el.LessonResource == nil || blank(el.LessonResource.VideoID)
	}
	return false
}

func blank(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "<p></p>" || s == "<p><br></p>"
}

// ImageIDs collects the backend ids of images referenced by image blocks.
func ImageIDs(doc model.Document) []int {
	out := []int{}
	for _, el := range doc.Elements {
		if el.Type != model.ElementImage {
			continue
		}
		for _, img := range el.Images {
			if img.ID != nil {
				out = append(out, *img.ID)
			}
		}
	}
	return out
}
