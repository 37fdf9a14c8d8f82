package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/model"
)

// Editor is what the interactive list needs from the to-do list. Every
// mutation is keyed by identifier and persists before returning.
type Editor interface {
	Add(ctx context.Context, title string) (model.Item, error)
	ToggleComplete(ctx context.Context, id int) (model.Item, error)
	Rename(ctx context.Context, id int, title string) (model.Item, error)
	Remove(ctx context.Context, id int) (model.Item, error)
	IncompleteView() []model.Item
	CompleteView() []model.Item
	Stats() (done, pending int)
}

// listItem adapts model.Item to bubbles/list.Item.
type listItem struct {
	item model.Item
}

func (i listItem) FilterValue() string { return i.item.Title }

// itemDelegate renders one line per item.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := mutedStyle.Render(Current().BoxUnchecked)
	text := it.item.Title
	if it.item.Complete {
		box = successStyle.Render(Current().BoxChecked)
		text = doneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s", prefix, box, text)
}

type inputMode int

const (
	browsing inputMode = iota
	adding
	editing
)

type listModel struct {
	ctx   context.Context
	todos Editor

	list   list.Model
	ti     textinput.Model
	mode   inputMode
	editID int

	status string
	errMsg string
	width  int
	height int
}

var (
	addKey    = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleKey = key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteKey = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	editKey   = key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	quitKey   = key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit"))
)

func newListModel(ctx context.Context, todos Editor) listModel {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")
	bindings := func() []key.Binding { return []key.Binding{addKey, toggleKey, deleteKey, editKey} }
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := listModel{ctx: ctx, todos: todos, list: l, ti: ti}
	m.resize(80, 24)
	m.refresh()
	return m
}

// refresh rebuilds the rows from the views: open items first, then finished
// ones, each most recently modified first.
func (m *listModel) refresh() tea.Cmd {
	open, done := m.todos.IncompleteView(), m.todos.CompleteView()
	rows := make([]list.Item, 0, len(open)+len(done))
	for _, it := range open {
		rows = append(rows, listItem{item: it})
	}
	for _, it := range done {
		rows = append(rows, listItem{item: it})
	}

	dn, pn := m.todos.Stats()
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		"Todos",
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), dn+pn,
	)
	return m.list.SetItems(rows)
}

func (m *listModel) resize(w, h int) {
	m.width, m.height = w, h
	listHeight := h - 4
	if m.mode != browsing {
		listHeight = h - 7
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(w-4, listHeight)
}

func (m listModel) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.item, ok
}

// Init implements tea.Model.
func (m listModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size.Width, size.Height)
		return m, nil
	}
	if m.mode != browsing {
		return m.updateInput(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, quitKey):
		return m, tea.Quit
	case key.Matches(keyMsg, addKey):
		m.startInput(adding, "", "New item title...")
		return m, textinput.Blink
	case key.Matches(keyMsg, editKey):
		if it, ok := m.selected(); ok {
			m.editID = it.Identifier
			m.startInput(editing, it.Title, "Edit item title...")
			return m, textinput.Blink
		}
		return m, nil
	case key.Matches(keyMsg, toggleKey):
		if it, ok := m.selected(); ok {
			updated, err := m.todos.ToggleComplete(m.ctx, it.Identifier)
			m.report(err, fmt.Sprintf("toggled #%d", updated.Identifier))
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	case key.Matches(keyMsg, deleteKey):
		if it, ok := m.selected(); ok {
			_, err := m.todos.Remove(m.ctx, it.Identifier)
			m.report(err, fmt.Sprintf("removed #%d", it.Identifier))
			cmd := m.refresh()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *listModel) startInput(mode inputMode, value, placeholder string) {
	m.mode = mode
	m.errMsg = ""
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	m.ti.Placeholder = placeholder
	m.ti.Focus()
	m.resize(m.width, m.height)
}

func (m *listModel) stopInput() {
	m.mode = browsing
	m.ti.SetValue("")
	m.ti.Blur()
	m.resize(m.width, m.height)
}

func (m listModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.Type {
		case tea.KeyEsc:
			m.stopInput()
			return m, nil
		case tea.KeyEnter:
			title := strings.TrimSpace(m.ti.Value())
			if title == "" {
				m.errMsg = "Title cannot be empty"
				return m, nil
			}
			if m.mode == adding {
				it, err := m.todos.Add(m.ctx, title)
				m.report(err, fmt.Sprintf("added #%d", it.Identifier))
			} else {
				_, err := m.todos.Rename(m.ctx, m.editID, title)
				m.report(err, fmt.Sprintf("renamed #%d", m.editID))
			}
			m.stopInput()
			cmd := m.refresh()
			return m, cmd
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *listModel) report(err error, ok string) {
	if err != nil {
		m.errMsg = err.Error()
		m.status = ""
		return
	}
	m.errMsg = ""
	m.status = ok
}

// View implements tea.Model.
func (m listModel) View() string {
	content := m.list.View()
	if m.mode != browsing {
		title := "Add new item"
		if m.mode == editing {
			title = fmt.Sprintf("Edit item #%d", m.editID)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	}
	switch {
	case m.errMsg != "":
		content += "\n" + errorStyle.Render("✖ "+m.errMsg)
	case m.status != "":
		content += "\n" + mutedStyle.Render(m.status)
	}
	return frameStyle.Render(content)
}

// RunInteractive starts the full-screen list. Changes are saved as they
// happen, so quitting never loses edits.
func RunInteractive(ctx context.Context, todos Editor, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(newListModel(ctx, todos), opts...)
	_, err := p.Run()
	return err
}
