// Package tui is the interactive editor for one list block. Every key maps
// to a single list engine call; the editor only keeps the current value,
// an undo stack of earlier values and the selection.
package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/longread/internal/listengine"
	"github.com/idilsaglam/longread/internal/model"
)

type mode int

const (
	browsing mode = iota
	editingValue
	editingTitle
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	frameStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

var keys = struct {
	addAfter, addEnd, addChild, edit, title, up, down, del, ordered, yank, undo, quit key.Binding
}{
	addAfter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add after")),
	addEnd:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	addChild: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "sub-item")),
	edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	title:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "title")),
	up:       key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
	down:     key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
	del:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	ordered:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "numbering")),
	yank:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
	undo:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the Bubble Tea model of the list editor.
type Model struct {
	cur  model.List
	undo []model.List

	list   list.Model
	ti     textinput.Model
	mode   mode
	target model.ListItem
	status string
	err    string

	copyText func(string) error
}

// New returns an editor over l.
func New(l model.List) Model {
	lm := list.New(nil, newRowDelegate(), 80, 20)
	lm.SetShowTitle(false)
	lm.SetShowHelp(true)
	lm.SetShowStatusBar(false)
	lm.SetFilteringEnabled(false)
	lm.Styles.HelpStyle = helpStyle
	lm.Styles.PaginationStyle = helpStyle
	bindings := func() []key.Binding {
		return []key.Binding{keys.addAfter, keys.addEnd, keys.addChild, keys.edit, keys.title,
			keys.up, keys.down, keys.del, keys.ordered, keys.yank, keys.undo}
	}
	lm.AdditionalShortHelpKeys = bindings
	lm.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 2000

	m := Model{cur: l, list: lm, ti: ti, copyText: clipboard.WriteAll}
	m.refresh("")
	return m
}

// List returns the current value of the list.
func (m Model) List() model.List { return m.cur }

// Changed reports whether any transition is left after undo.
func (m Model) Changed() bool { return len(m.undo) > 0 }

func (m Model) selected() (row, bool) {
	r, ok := m.list.SelectedItem().(row)
	return r, ok
}

// refresh rebuilds the rows from the current list and selects focusID, or
// keeps the cursor where it was.
func (m *Model) refresh(focusID string) {
	var rows []list.Item
	focus := -1
	listengine.Walk(m.cur, func(it model.ListItem, depth, index int) bool {
		if it.ID == focusID {
			focus = len(rows)
		}
		rows = append(rows, row{item: it, depth: depth, index: index, ordered: m.cur.Settings.Ordered})
		return true
	})
	cursor := m.list.Index()
	m.list.SetItems(rows)
	switch {
	case focus >= 0:
		m.list.Select(focus)
	case cursor >= len(rows) && len(rows) > 0:
		m.list.Select(len(rows) - 1)
	default:
		m.list.Select(cursor)
	}
}

// apply keeps next as the current list when the transition changed it.
func (m *Model) apply(next model.List, changed bool, focusID string) {
	if !changed {
		m.status = "nothing to do"
		return
	}
	m.undo = append(m.undo, m.cur)
	m.cur = next
	m.refresh(focusID)
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h := msg.Height - 6
		if m.mode != browsing {
			h -= 3
		}
		m.list.SetSize(max(10, msg.Width-4), max(3, h))
		return m, nil
	case tea.KeyMsg:
		if m.mode != browsing {
			return m.updateInput(msg)
		}
		m.status, m.err = "", ""
		return m.updateBrowse(msg)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := m.ti.Value()
		switch m.mode {
		case editingValue:
			if value != m.target.Value {
				next, changed := listengine.ChangeValue(m.cur, m.target, value)
				m.apply(next, changed, m.target.ID)
			}
		case editingTitle:
			if value != m.cur.Title {
				m.apply(listengine.ChangeTitle(m.cur, value), true, "")
			}
		}
		m.stopInput()
		return m, nil
	case "esc":
		m.stopInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) startInput(md mode, value, placeholder string) tea.Cmd {
	m.mode = md
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	return m.ti.Focus()
}

func (m *Model) stopInput() {
	m.mode = browsing
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel, hasSel := m.selected()

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.addEnd):
		next := listengine.AddItem(m.cur, "")
		m.apply(next, true, next.Items[len(next.Items)-1].ID)
		return m, nil
	case key.Matches(msg, keys.title):
		return m, m.startInput(editingTitle, m.cur.Title, "List title...")
	case key.Matches(msg, keys.ordered):
		next := m.cur
		next.Settings.Ordered = !next.Settings.Ordered
		m.apply(next, true, "")
		return m, nil
	case key.Matches(msg, keys.undo):
		if len(m.undo) == 0 {
			m.status = "nothing to undo"
			return m, nil
		}
		m.cur = m.undo[len(m.undo)-1]
		m.undo = m.undo[:len(m.undo)-1]
		m.refresh("")
		return m, nil
	}

	if !hasSel {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.addAfter):
		next, changed := listengine.AddItemAfter(m.cur, sel.item)
		focus := ""
		if changed {
			focus = next.Items[listengine.Index(next, sel.item.ID)+1].ID
		}
		m.apply(next, changed, focus)
	case key.Matches(msg, keys.addChild):
		if sel.depth != 1 {
			m.err = "sub-items only go one level deep"
			return m, nil
		}
		next := listengine.AddItem(m.cur, sel.item.ID)
		m.apply(next, true, next.Items[len(next.Items)-1].ID)
	case key.Matches(msg, keys.edit):
		m.target = sel.item
		return m, m.startInput(editingValue, sel.item.Value, "Item text...")
	case key.Matches(msg, keys.up):
		next, changed := listengine.MoveUp(m.cur, sel.item)
		m.apply(next, changed, sel.item.ID)
	case key.Matches(msg, keys.down):
		next, changed := listengine.MoveDown(m.cur, sel.item)
		m.apply(next, changed, sel.item.ID)
	case key.Matches(msg, keys.del):
		if sel.depth == 1 && len(listengine.Children(m.cur, m.cur.ID)) == 1 {
			m.err = "the last item cannot be deleted"
			return m, nil
		}
		next, changed := listengine.DeleteItem(m.cur, sel.item)
		m.apply(next, changed, "")
	case key.Matches(msg, keys.yank):
		if err := m.copyText(sel.item.Value); err != nil {
			m.err = "clipboard: " + err.Error()
			return m, nil
		}
		m.status = "copied"
	default:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	title := strings.TrimSpace(m.cur.Title)
	if title == "" {
		title = "(untitled list)"
	}
	numbering := "bullets"
	if m.cur.Settings.Ordered {
		numbering = "numbered"
	}
	header := titleStyle.Render(title) + "  " + helpStyle.Render(numbering)
	if n := len(listengine.Orphans(m.cur)); n > 0 {
		header += helpStyle.Render(fmt.Sprintf("  %d orphaned hidden", n))
	}

	content := header + "\n\n" + m.list.View()
	if m.mode != browsing {
		label := "Edit item"
		if m.mode == editingTitle {
			label = "Edit title"
		}
		content += "\n" + frameStyle.Render(label+"\n"+m.ti.View())
	}
	switch {
	case m.err != "":
		content += "\n" + errorStyle.Render(m.err)
	case m.status != "":
		content += "\n" + statusStyle.Render(m.status)
	}
	return frameStyle.Render(content)
}

// Run starts the editor on l and returns the final list and whether it
// differs from l.
func Run(l model.List) (model.List, bool, error) {
	p := tea.NewProgram(New(l), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return l, false, err
	}
	fm, ok := final.(Model)
	if !ok {
		return l, false, nil
	}
	return fm.cur, fm.Changed(), nil
}
