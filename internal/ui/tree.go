package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/listengine"
	"github.com/idilsaglam/longread/internal/model"
)

const lineWidth = 72

var cyrillic = []rune("абвгдежзиклмнопрстуфхцчшщэюя")

// Letter returns the marker of the index-th nested ordered item: а, б, ...
// and then doubled letters once the alphabet runs out.
func Letter(index int) string {
	if index < 0 {
		return ""
	}
	n := len(cyrillic)
	return strings.Repeat(string(cyrillic[index%n]), index/n+1)
}

// Marker is the numbering shown in front of a list item.
func Marker(ordered bool, depth, index int) string {
	switch {
	case !ordered:
		return current.Bullet
	case depth == 1:
		return strconv.Itoa(index+1) + "."
	default:
		return Letter(index) + "."
	}
}

// ListLines renders l as an indented tree. Orphaned items are not shown.
func ListLines(l model.List) []string {
	var out []string
	listengine.Walk(l, func(it model.ListItem, depth, index int) bool {
		indent := strings.Repeat("  ", depth-1)
		value := Inline(it.Value, lineWidth-2*depth)
		if value == "" {
			value = current.Muted.Render("(empty)")
		}
		out = append(out, fmt.Sprintf("%s%s %s  %s",
			indent, current.Accent.Render(Marker(l.Settings.Ordered, depth, index)), value,
			current.Muted.Render(ids.Short(it.ID))))
		return true
	})
	return out
}

// DocumentLines renders the header and every block with its short id.
func DocumentLines(doc model.Document) []string {
	title := Inline(doc.Title, lineWidth)
	if title == "" {
		title = "(untitled)"
	}
	out := []string{current.Title.Render(title)}
	var meta []string
	if doc.ApproximateProgressTime != nil {
		meta = append(meta, fmt.Sprintf("%d min", *doc.ApproximateProgressTime))
	}
	if doc.RemoteID != 0 {
		meta = append(meta, fmt.Sprintf("remote #%d", doc.RemoteID))
	}
	if doc.ReusableContentEnabled {
		meta = append(meta, "reusable")
	}
	if len(meta) > 0 {
		out = append(out, current.Muted.Render(strings.Join(meta, " · ")))
	}
	if d := strings.TrimSpace(doc.InternalDescription); d != "" {
		out = append(out, current.Muted.Render(Inline(d, lineWidth)))
	}
	if len(doc.Elements) == 0 {
		return append(out, "", current.Muted.Render("no blocks yet"))
	}

	for i, el := range doc.Elements {
		out = append(out, "")
		head := fmt.Sprintf("#%d %s %s", i+1, el.Type, current.Muted.Render(ids.Short(el.ID)))
		if el.Type == model.ElementList && el.Settings.Ordered {
			head += current.Muted.Render(" ordered")
		}
		out = append(out, current.Accent.Render(head))
		for _, ln := range blockLines(el) {
			out = append(out, "  "+ln)
		}
	}
	return out
}

func blockLines(el model.Element) []string {
	var out []string
	add := func(s string) {
		if s = Inline(s, lineWidth); s != "" {
			out = append(out, s)
		}
	}
	switch el.Type {
	case model.ElementText, model.ElementCode:
		add(el.Value)
	case model.ElementList:
		if t := Inline(el.Title, lineWidth); t != "" {
			out = append(out, current.Title.Render(t))
		}
		l := el.AsList()
		out = append(out, ListLines(l)...)
		if n := len(listengine.Orphans(l)); n > 0 {
			out = append(out, current.Muted.Render(fmt.Sprintf("%d orphaned hidden", n)))
		}
	case model.ElementPanel:
		add(el.Badge)
		add(el.Title)
		add(el.Content)
		add(el.Caption)
	case model.ElementImage:
		for _, img := range el.Images {
			if img.URL == "" {
				out = append(out, current.Muted.Render("(image slot)"))
				continue
			}
			out = append(out, img.URL)
		}
	case model.ElementVideo:
		if lr := el.LessonResource; lr != nil {
			add(lr.Title)
			add(lr.URL)
		}
		add(el.Description)
	case model.ElementPage:
		out = append(out, current.Muted.Render("── page break ──"))
	}
	if len(out) == 0 {
		out = append(out, current.Muted.Render("(empty)"))
	}
	return out
}
