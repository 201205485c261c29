// Package listengine implements the transitions of a nested list stored as a
// flat, order-significant sequence of items with parent references.
//
// Every transition takes a List value and returns a List value plus whether
// anything changed. Inputs are never mutated: a changed result always owns a
// fresh Items slice, and an unchanged result is the input as given. A lookup
// miss is a silent no-op, never an error.
package listengine

import (
	"slices"

	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/model"
)

// New returns an empty list seeded with one top-level item.
func New(ordered bool) model.List {
	l := model.List{
		ID:       ids.New(),
		Settings: model.ListSettings{Ordered: ordered},
	}
	l.Items = []model.ListItem{newItem(l.ID)}
	return l
}

func newItem(parentID string) model.ListItem {
	return model.ListItem{ID: ids.New(), ParentID: parentID}
}

// ChangeTitle replaces the list title.
func ChangeTitle(l model.List, title string) model.List {
	l.Title = title
	return l
}

// AddItem appends an empty item under parentID. An empty parentID means the
// list itself, i.e. a new top-level item.
func AddItem(l model.List, parentID string) model.List {
	if parentID == "" {
		parentID = l.ID
	}
	items := make([]model.ListItem, 0, len(l.Items)+1)
	items = append(items, l.Items...)
	l.Items = append(items, newItem(parentID))
	return l
}

// AddItemAfter inserts an empty sibling of anchor right after it.
func AddItemAfter(l model.List, anchor model.ListItem) (model.List, bool) {
	i := Index(l, anchor.ID)
	if i < 0 {
		return l, false
	}
	l.Items = slices.Insert(slices.Clone(l.Items), i+1, newItem(anchor.ParentID))
	return l, true
}

// ChangeValue replaces the value of target, keeping its slot and parent.
func ChangeValue(l model.List, target model.ListItem, value string) (model.List, bool) {
	i := Index(l, target.ID)
	if i < 0 {
		return l, false
	}
	items := slices.Clone(l.Items)
	items[i].Value = value
	l.Items = items
	return l, true
}

// MoveUp swaps target with its nearest preceding sibling.
func MoveUp(l model.List, target model.ListItem) (model.List, bool) {
	i := Index(l, target.ID)
	if i < 0 {
		return l, false
	}
	j := -1
	for k := 0; k < i; k++ {
		if l.Items[k].ParentID == target.ParentID {
			j = k
		}
	}
	if j < 0 {
		return l, false
	}
	return swap(l, i, j), true
}

// MoveDown swaps target with its nearest following sibling.
func MoveDown(l model.List, target model.ListItem) (model.List, bool) {
	i := Index(l, target.ID)
	if i < 0 {
		return l, false
	}
	for k := i + 1; k < len(l.Items); k++ {
		if l.Items[k].ParentID == target.ParentID {
			return swap(l, i, k), true
		}
	}
	return l, false
}

func swap(l model.List, i, j int) model.List {
	items := slices.Clone(l.Items)
	items[i], items[j] = items[j], items[i]
	l.Items = items
	return l
}

// DeleteItem removes target and its direct children. Grandchildren are left
// in place and become orphans (see Orphans).
func DeleteItem(l model.List, target model.ListItem) (model.List, bool) {
	items := make([]model.ListItem, 0, len(l.Items))
	for _, it := range l.Items {
		if it.ParentID != target.ID {
			items = append(items, it)
		}
	}
	i := slices.IndexFunc(items, func(it model.ListItem) bool { return it.ID == target.ID })
	if i < 0 {
		return l, false
	}
	l.Items = slices.Delete(items, i, i+1)
	return l, true
}
