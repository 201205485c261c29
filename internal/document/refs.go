package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/longread/internal/model"
)

var (
	ErrUnknownRef   = errors.New("no match")
	ErrAmbiguousRef = errors.New("ambiguous reference")
)

// ResolveElement finds a block by its full id or by a unique id prefix.
// A 1-based position ("#2") is accepted as well.
func ResolveElement(doc model.Document, ref string) (model.Element, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Element{}, fmt.Errorf("element %q: %w", ref, ErrUnknownRef)
	}
	if n, ok := position(ref); ok {
		if n < 1 || n > len(doc.Elements) {
			return model.Element{}, fmt.Errorf("element %s: have %d: %w", ref, len(doc.Elements), ErrUnknownRef)
		}
		return doc.Elements[n-1], nil
	}
	i, err := resolve(len(doc.Elements), func(i int) string { return doc.Elements[i].ID }, ref)
	if err != nil {
		return model.Element{}, fmt.Errorf("element %q: %w", ref, err)
	}
	return doc.Elements[i], nil
}

// ResolveList is ResolveElement restricted to list blocks.
func ResolveList(doc model.Document, ref string) (model.List, error) {
	el, err := ResolveElement(doc, ref)
	if err != nil {
		return model.List{}, err
	}
	if el.Type != model.ElementList {
		return model.List{}, fmt.Errorf("element %q is a %s block, not a list", ref, el.Type)
	}
	return el.AsList(), nil
}

// ResolveItem finds a list item by full id or unique id prefix.
func ResolveItem(l model.List, ref string) (model.ListItem, error) {
	ref = strings.TrimSpace(ref)
	i, err := resolve(len(l.Items), func(i int) string { return l.Items[i].ID }, ref)
	if err != nil {
		return model.ListItem{}, fmt.Errorf("item %q: %w", ref, err)
	}
	return l.Items[i], nil
}

func resolve(n int, id func(int) string, ref string) (int, error) {
	if ref == "" {
		return -1, ErrUnknownRef
	}
	for i := 0; i < n; i++ {
		if id(i) == ref {
			return i, nil
		}
	}
	match := -1
	for i := 0; i < n; i++ {
		if strings.HasPrefix(id(i), ref) {
			if match >= 0 {
				return -1, ErrAmbiguousRef
			}
			match = i
		}
	}
	if match < 0 {
		return -1, ErrUnknownRef
	}
	return match, nil
}

func position(ref string) (int, bool) {
	if !strings.HasPrefix(ref, "#") {
		return 0, false
	}
	n, err := strconv.Atoi(ref[1:])
	if err != nil {
		return 0, false
	}
	return n, true
}
