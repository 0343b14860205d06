package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"trama/internal/cli/formatter"
	"trama/internal/domain"
	"trama/internal/wbs"
)

// treeRefreshedMsg carries the recomputed visible rows after a mutation.
type treeRefreshedMsg struct {
	rows []wbs.Row
	err  error
}

// browseKeys is the key map of the browse view.
type browseKeys struct {
	Up       key.Binding
	Down     key.Binding
	Toggle   key.Binding
	Done     key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding
	Promote  key.Binding
	Demote   key.Binding
	Delete   key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

func newBrowseKeys() browseKeys {
	return browseKeys{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand/collapse")),
		Done:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		MoveUp:   key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move down")),
		Promote:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "promote")),
		Demote:   key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "demote")),
		Delete:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "trash")),
		Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseModel is the interactive tree editor. Every mutation goes through
// the tree service; the model only holds cursor and expand state.
type browseModel struct {
	app      *App
	title    string
	keys     browseKeys
	rows     []wbs.Row
	expanded map[string]bool
	cursor   int
	width    int
	height   int
	status   string
	err      error
}

func newBrowseModel(app *App, title string) *browseModel {
	m := &browseModel{
		app:      app,
		title:    title,
		keys:     newBrowseKeys(),
		expanded: make(map[string]bool),
	}
	m.rows = app.Tree.Rows(m.expanded)
	return m
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case treeRefreshedMsg:
		m.err = msg.err
		if msg.rows != nil {
			m.rows = msg.rows
		}
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *browseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		row, ok := m.current()
		if !ok || !row.HasChildren {
			return m, nil
		}
		m.expanded[row.Node.ID] = !m.isExpanded(row)
		m.rows = m.app.Tree.Rows(m.expanded)
		m.clampCursor()
		return m, nil

	case key.Matches(msg, m.keys.Done):
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		target := domain.StatusDone.BackendCode()
		if domain.IsDone(row.Node.Status) {
			target = domain.StatusInProgress.BackendCode()
		}
		return m, m.mutate(func(ctx context.Context) error {
			code := target
			return m.app.Tree.UpdateNode(ctx, row.Node.ID, wbs.Update{Status: &code})
		})

	case key.Matches(msg, m.keys.MoveUp):
		return m.reorderBy(-1)

	case key.Matches(msg, m.keys.MoveDown):
		return m.reorderBy(1)

	case key.Matches(msg, m.keys.Promote):
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.mutate(func(ctx context.Context) error {
			return m.app.Tree.Promote(ctx, row.Node.ID)
		})

	case key.Matches(msg, m.keys.Demote):
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		return m, m.mutate(func(ctx context.Context) error {
			expandID, err := m.app.Tree.Demote(ctx, row.Node.ID)
			if expandID != "" {
				m.expanded[expandID] = true
			}
			return err
		})

	case key.Matches(msg, m.keys.Delete):
		row, ok := m.current()
		if !ok {
			return m, nil
		}
		m.status = fmt.Sprintf("Trashed %q", row.Node.Title)
		return m, m.mutate(func(ctx context.Context) error {
			return m.app.Tree.SoftDelete(ctx, row.Node.ID)
		})

	case key.Matches(msg, m.keys.Reload):
		return m, m.mutate(func(ctx context.Context) error {
			return m.app.Tree.Load(ctx, m.app.Tree.ProjectID())
		})
	}
	return m, nil
}

// mutate runs a tree mutation and refreshes the visible rows afterwards.
func (m *browseModel) mutate(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return treeRefreshedMsg{err: err}
		}
		return treeRefreshedMsg{rows: m.app.Tree.Rows(m.expanded)}
	}
}

func (m *browseModel) reorderBy(delta int) (tea.Model, tea.Cmd) {
	row, ok := m.current()
	if !ok {
		return m, nil
	}
	idx := siblingIndex(m.app.Tree.AllRows(), row.Node.ID)
	if idx < 0 || idx+delta < 0 {
		return m, nil
	}
	return m, m.mutate(func(ctx context.Context) error {
		return m.app.Tree.Reorder(ctx, row.Node.ID, idx+delta)
	})
}

func (m *browseModel) current() (wbs.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return wbs.Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *browseModel) isExpanded(row wbs.Row) bool {
	if v, ok := m.expanded[row.Node.ID]; ok {
		return v
	}
	return wbs.DefaultExpanded(row.Level)
}

func (m *browseModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *browseModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.Header(m.title))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(formatter.Dim("No tasks yet. Add one with 'trama task add'."))
	}

	for i, row := range m.rows {
		line := browseRowLine(row, m.app.Tree.Progress())
		if i == m.cursor {
			line = formatter.StyleHeader.Render("❯ ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(formatter.Dim(m.status))
		b.WriteString("\n")
	}
	b.WriteString(formatter.Dim("enter expand · space done · J/K move · </> level · x trash · r reload · q quit"))
	return b.String()
}

// browseRowLine renders one visible row with its collapse caret.
func browseRowLine(row wbs.Row, progress map[string]int) string {
	indent := strings.Repeat("  ", row.Level)

	caret := "  "
	if row.HasChildren {
		caret = formatter.StyleDim.Render("▸ ")
	}

	code := formatter.StyleDim.Render(row.Code())
	title := row.Node.Title
	status := domain.NormalizeStatus(row.Node.Status)
	switch status {
	case domain.StatusDone:
		title = formatter.StyleGreen.Render("✔ ") + formatter.Dim(title)
	case domain.StatusLate, domain.StatusAtRisk:
		title = formatter.StatusStyle(status).Render("▲ " + title)
	default:
		title = formatter.StyleFg.Render(title)
	}

	line := indent + caret + code + " " + title
	if row.HasChildren {
		line += "  " + formatter.RenderProgress(progress[row.Node.ID], 8)
	}
	return line
}
