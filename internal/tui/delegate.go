package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/longread/internal/ids"
	"github.com/idilsaglam/longread/internal/model"
	"github.com/idilsaglam/longread/internal/ui"
)

// row adapts one reachable list item to bubbles/list.Item.
type row struct {
	item    model.ListItem
	depth   int
	index   int
	ordered bool
}

func (r row) Title() string {
	v := ui.Inline(r.item.Value, 0)
	if v == "" {
		v = "(empty)"
	}
	indent := strings.Repeat("  ", r.depth-1)
	return indent + ui.Marker(r.ordered, r.depth, r.index) + " " + v
}

func (r row) Description() string { return "" }
func (r row) FilterValue() string { return ui.PlainText(r.item.Value) }

type rowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
}

func newRowDelegate() rowDelegate {
	return rowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Bold(true),
		muted: lipgloss.NewStyle().Faint(true),
	}
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	width := m.Width()
	if width < 4 {
		return
	}
	id := " " + ids.Short(r.item.ID)
	line := r.Title()
	avail := width - xansi.StringWidth(id)
	if xansi.StringWidth(line) > avail {
		line = xansi.Truncate(line, avail, "…")
	}
	line += strings.Repeat(" ", max(0, avail-xansi.StringWidth(line)))

	if index == m.Index() {
		fmt.Fprint(w, d.selected.Render(line+id))
		return
	}
	fmt.Fprint(w, d.normal.Render(line)+d.muted.Render(id))
}
