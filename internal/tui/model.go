// Package tui implements the interactive shop map editor.
//
// The model subscribes to a types.Layout and redraws from Observe()
// whenever the layout reports a change, whether the change came from the
// editor itself or from another writer such as the file watcher.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/shopmap/pkg/types"
)

// Stager writes an export of slots somewhere shareable and returns its
// path.
type Stager func(types.Slots) (string, error)

// changedMsg tells the model the layout changed.
type changedMsg struct{}

// Model is the bubbletea model for the editor.
type Model struct {
	layout types.Layout
	stage  Stager
	styles Styles

	// changes is signalled by the layout listener. It holds at most one
	// pending signal; further changes coalesce into it.
	changes chan struct{}
	cancel  func()

	// done is closed by Close and releases a pending waitForChange.
	done      chan struct{}
	closeOnce *sync.Once

	slots  types.Slots
	cursor int

	dialog bool
	input  textinput.Model

	status string
	err    error
}

// Option configures a Model.
type Option func(*Model)

// WithStager enables the stage-export key.
func WithStager(s Stager) Option {
	return func(m *Model) { m.stage = s }
}

// WithStyles overrides the default styles.
func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

// New creates an editor over layout and subscribes to it. Call Close to
// remove the subscription.
func New(layout types.Layout, opts ...Option) Model {
	input := textinput.New()
	input.Placeholder = "item name"
	// No limit: the dialog stores the same text 'shopmap add' would.
	input.CharLimit = 0
	input.Prompt = "+ "

	m := Model{
		layout:  layout,
		styles:  DefaultStyles(),
		changes:   make(chan struct{}, 1),
		done:      make(chan struct{}),
		closeOnce: &sync.Once{},
		input:     input,
	}
	for _, opt := range opts {
		opt(&m)
	}

	changes := m.changes
	m.cancel = layout.Subscribe(func(types.Slots) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	m.slots = layout.Observe()
	return m
}

// Close removes the layout subscription and ends any command still
// waiting for a change. It is safe to call more than once.
func (m Model) Close() {
	m.closeOnce.Do(func() {
		if m.cancel != nil {
			m.cancel()
		}
		close(m.done)
	})
}

// Cursor returns the selected slot index.
func (m Model) Cursor() int { return m.cursor }

// DialogOpen reports whether the shelf dialog is showing.
func (m Model) DialogOpen() bool { return m.dialog }

// waitForChange blocks until the layout signals a change or done is
// closed.
func waitForChange(ch, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ch:
			return changedMsg{}
		case <-done:
			return nil
		}
	}
}

// Init starts listening for layout changes.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes, m.done)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		m.refresh()
		return m, waitForChange(m.changes, m.done)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.dialog {
			return m.updateDialog(msg)
		}
		return m.updateGrid(msg)
	}

	if m.dialog {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// refresh reloads the snapshot; an open dialog closes if its shelf is gone.
func (m *Model) refresh() {
	m.slots = m.layout.Observe()
	if m.dialog && m.slots[m.cursor] == nil {
		m.closeDialog()
		m.status = fmt.Sprintf("slot %d was emptied", m.cursor)
	}
}

func (m Model) updateGrid(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, col := types.RowCol(m.cursor)

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		row--
	case "down", "j":
		row++
	case "left", "h":
		col--
	case "right", "l":
		col++
	case "enter", " ":
		return m.activate()
	case "s":
		m.stageExport()
		return m, nil
	default:
		return m, nil
	}

	if idx := types.IndexAt(row, col); idx >= 0 {
		m.cursor = idx
	}
	return m, nil
}

// activate occupies an empty slot or opens the dialog for an occupied one.
func (m Model) activate() (tea.Model, tea.Cmd) {
	m.err = nil
	current, err := m.layout.Shelf(m.cursor)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.slots = m.layout.Observe()
	if current != nil {
		m.dialog = true
		m.input.Reset()
		return m, m.input.Focus()
	}

	shelf, err := m.layout.OccupySlot(m.cursor)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.slots = m.layout.Observe()
	m.status = fmt.Sprintf("created %s", shelf.Name)
	return m, nil
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeDialog()
		return m, nil
	case tea.KeyEnter:
		shelf, err := m.layout.AddItem(m.cursor, m.input.Value())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.slots = m.layout.Observe()
		m.status = fmt.Sprintf("added to %s", shelf.Name)
		m.input.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeDialog() {
	m.dialog = false
	m.err = nil
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) stageExport() {
	if m.stage == nil {
		m.err = errors.New("export is not configured")
		return
	}
	path, err := m.stage(m.layout.Observe())
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "exported to " + path
}

// View renders the editor.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render(fmt.Sprintf("Shop map  %d/%d shelves", m.slots.Occupied(), types.SlotCount)))
	sb.WriteString("\n")
	sb.WriteString(m.renderGrid())
	sb.WriteString("\n")

	if m.dialog {
		sb.WriteString(m.renderDialog())
		sb.WriteString("\n")
	}

	switch {
	case m.err != nil:
		sb.WriteString(m.styles.Error.Render(m.err.Error()))
	case m.status != "":
		sb.WriteString(m.styles.Status.Render(m.status))
	}
	sb.WriteString("\n")

	help := "arrows/hjkl move • enter occupy/open • s export • q quit"
	if m.dialog {
		help = "enter add item • esc close • ctrl+c quit"
	}
	sb.WriteString(m.styles.Help.Render(help))
	return sb.String()
}

func (m Model) renderGrid() string {
	rows := make([]string, 0, types.GridRows)
	for row := 0; row < types.GridRows; row++ {
		cells := make([]string, 0, types.GridColumns)
		for col := 0; col < types.GridColumns; col++ {
			idx := types.IndexAt(row, col)
			cells = append(cells, m.renderCell(idx))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderCell(idx int) string {
	base := m.styles.Cell
	if idx == m.cursor {
		base = m.styles.Cursor
	}

	shelf := m.slots[idx]
	if shelf == nil {
		return fill(base, types.EmptySlotColor).Render("+")
	}
	label := fmt.Sprintf("%s (%d)", shelf.Name, len(shelf.Items))
	return fill(base, shelf.Color).Render(truncate(label, cellWidth))
}

// truncate shortens s to at most n runes, ending with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func (m Model) renderDialog() string {
	shelf := m.slots[m.cursor]
	if shelf == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Bold(true).Render(shelf.Name))
	sb.WriteString("\n")
	if len(shelf.Items) == 0 {
		sb.WriteString(m.styles.Status.Render("no items yet"))
		sb.WriteString("\n")
	}
	for i, item := range shelf.Items {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, item))
	}
	sb.WriteString(m.input.View())
	return m.styles.Dialog.Render(sb.String())
}

// Run runs the editor until the user quits or ctx is cancelled. The
// subscription is removed on return.
func Run(ctx context.Context, m Model, opts ...tea.ProgramOption) error {
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(m, opts...)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
