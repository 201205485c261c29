package ui

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/idilsaglam/longread/internal/document"
	"github.com/idilsaglam/longread/internal/listengine"
	"github.com/idilsaglam/longread/internal/model"
)

var (
	mdRendererMu sync.Mutex
	// Keyed by style and wrap width. A fixed style avoids the terminal
	// background query WithAutoStyle performs.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

// Markdown exports doc as markdown. Empty blocks and empty list items are
// left out, the way a reader would see the longread.
func Markdown(doc model.Document) string {
	var blocks []string
	if t := Inline(doc.Title, 0); t != "" {
		blocks = append(blocks, "# "+t)
	}
	for _, el := range doc.Elements {
		if document.IsEmpty(el) {
			continue
		}
		if b := blockMarkdown(el); b != "" {
			blocks = append(blocks, b)
		}
	}
	if len(blocks) == 0 {
		return ""
	}
	return strings.Join(blocks, "\n\n") + "\n"
}

func blockMarkdown(el model.Element) string {
	switch el.Type {
	case model.ElementText:
		return PlainText(el.Value)
	case model.ElementCode:
		return "```\n" + PlainText(el.Value) + "\n```"
	case model.ElementList:
		var lines []string
		if t := Inline(el.Title, 0); t != "" {
			lines = append(lines, "**"+t+"**", "")
		}
		return strings.Join(append(lines, listMarkdown(el.AsList())...), "\n")
	case model.ElementPanel:
		var lines []string
		if b := Inline(el.Badge, 0); b != "" {
			lines = append(lines, "**"+b+"**")
		}
		for _, s := range []string{el.Title, el.Content, el.Caption} {
			if p := PlainText(s); p != "" {
				lines = append(lines, strings.Split(p, "\n")...)
			}
		}
		for i, ln := range lines {
			lines[i] = strings.TrimRight("> "+ln, " ")
		}
		return strings.Join(lines, "\n")
	case model.ElementImage:
		var lines []string
		for _, img := range el.Images {
			if strings.TrimSpace(img.URL) != "" {
				lines = append(lines, "![]("+img.URL+")")
			}
		}
		return strings.Join(lines, "\n")
	case model.ElementVideo:
		lr := el.LessonResource
		title := Inline(lr.Title, 0)
		if title == "" {
			title = "Video"
		}
		line := "▶ " + title
		if lr.URL != "" {
			line = "▶ [" + title + "](" + lr.URL + ")"
		}
		if d := PlainText(el.Description); d != "" {
			line += "\n\n" + d
		}
		return line
	case model.ElementPage:
		return "---"
	}
	return ""
}

// listMarkdown writes the reachable items as nested markdown lists. Empty
// items are skipped together with their sub-items.
func listMarkdown(l model.List) []string {
	var out []string
	seen := map[string]bool{}
	var walk func(parentID, indent string)
	walk = func(parentID, indent string) {
		n := 0
		for _, it := range listengine.Children(l, parentID) {
			v := Inline(it.Value, 0)
			if v == "" || seen[it.ID] {
				continue
			}
			seen[it.ID] = true
			n++
			marker := "-"
			if l.Settings.Ordered {
				marker = strconv.Itoa(n) + "."
			}
			out = append(out, indent+marker+" "+v)
			walk(it.ID, indent+strings.Repeat(" ", len(marker)+1))
		}
	}
	walk(l.ID, "")
	return out
}

// Preview renders doc for the terminal with glamour, wrapped to width.
func Preview(doc model.Document, width int) string {
	md := Markdown(doc)
	if md == "" {
		return ""
	}
	if width < 20 {
		width = 20
	}

	style := styles.DarkStyle
	if lipgloss.ColorProfile() == termenv.Ascii {
		style = styles.NoTTYStyle
	}
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	defer mdRendererMu.Unlock()
	r := mdRenderers[key]
	if r == nil {
		var err error
		r, err = glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRenderers[key] = r
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
