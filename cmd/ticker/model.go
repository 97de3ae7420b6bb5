package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-ticker/internal/feed"
	"github.com/rxtech-lab/argo-ticker/internal/filter"
	"github.com/rxtech-lab/argo-ticker/internal/session"
	"github.com/rxtech-lab/argo-ticker/internal/types"
	"github.com/shopspring/decimal"
)

// focusTable is the focus index of the table; lower indexes are filter inputs.
var focusTable = len(filter.Fields)

// Model is the Bubble Tea model of the live ticker view.
type Model struct {
	session    *session.Session
	inputs     []textinput.Model
	focus      int
	dataTable  table.Model
	rows       types.SnapshotSet
	prevPrices map[string]decimal.Decimal
	width      int
	height     int

	// Streaming control
	streamCancel context.CancelFunc
}

// NewModel creates a model over sess. cancel stops the feed stream and may be nil.
func NewModel(sess *session.Session, cancel context.CancelFunc) Model {
	m := Model{
		session:      sess,
		inputs:       NewFilterInputs(sess.Criteria()),
		dataTable:    NewTickerTable(),
		prevPrices:   make(map[string]decimal.Decimal),
		streamCancel: cancel,
	}

	m.inputs[0].Focus()
	m.refreshRows()

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.quit()
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.focus == focusTable {
				return m.quit()
			}
		case "tab":
			return m.setFocus((m.focus + 1) % (focusTable + 1))
		case "shift+tab":
			return m.setFocus((m.focus + focusTable) % (focusTable + 1))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dataTable.SetWidth(msg.Width)
		m.dataTable.SetHeight(max(msg.Height-12, 3))

		return m, nil

	case SnapshotMsg:
		// Only symbols of the outgoing set keep a previous price.
		previous := m.session.Snapshots()
		m.prevPrices = make(map[string]decimal.Decimal, len(previous))

		for _, t := range previous {
			m.prevPrices[t.Symbol] = t.LastPrice
		}

		m.session.OnFeedMessage(msg.Set)
		m.refreshRows()

		return m, nil

	case FeedErrorMsg:
		m.session.OnFeedError(msg.Err)

		return m, nil

	case FeedClosedMsg:
		m.session.OnFeedClosed()

		return m, nil
	}

	if m.focus == focusTable {
		var cmd tea.Cmd
		m.dataTable, cmd = m.dataTable.Update(msg)

		return m, cmd
	}

	return m.updateInput(msg)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.streamCancel != nil {
		m.streamCancel()
	}

	m.session.Close()

	return m, tea.Quit
}

func (m Model) setFocus(focus int) (tea.Model, tea.Cmd) {
	m.focus = focus

	for i := range m.inputs {
		m.inputs[i].Blur()
	}

	if focus == focusTable {
		m.dataTable.Focus()

		return m, nil
	}

	m.dataTable.Blur()

	return m, m.inputs[focus].Focus()
}

// updateInput forwards msg to the focused input and re-filters when its text changed.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	after := m.inputs[m.focus].Value()
	if after != before {
		// filter.Fields only holds known fields, so Set cannot fail here.
		_ = m.session.OnCriteriaChange(filter.Fields[m.focus], after)

		m.refreshRows()
	}

	return m, cmd
}

func (m *Model) refreshRows() {
	m.rows = m.session.Rows()
	m.dataTable = UpdateTableRows(m.dataTable, m.rows, m.prevPrices)
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	quote := m.session.QuoteAsset()
	if quote == "" {
		quote = "all"
	}

	s.WriteString(TitleStyle.Render(fmt.Sprintf("Argo Ticker - Live Market (%s)", quote)))
	s.WriteString("  ")
	s.WriteString(StatusBadge(m.session.Status()))
	s.WriteString("\n\n")
	s.WriteString(m.inputsView())
	s.WriteString("\n")

	if err := m.session.LastError(); err != nil {
		s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		s.WriteString("\n")
	}

	switch {
	case m.session.Status() == session.StatusConnecting:
		s.WriteString("Waiting for data...\n")
	case len(m.rows) == 0:
		s.WriteString("No symbols match the current filters.\n")
	default:
		s.WriteString(m.dataTable.View())
		s.WriteString("\n")
	}

	stats := m.session.Stats()
	s.WriteString(HelpStyle.Render(fmt.Sprintf("rows: %d/%d | messages: %d | parse errors: %d | filters: %s",
		len(m.rows), len(m.session.Snapshots()), stats.Messages, stats.ParseErrors, m.session.Criteria())))
	s.WriteString("\n")
	s.WriteString(HelpStyle.Render("tab: next field | ↑/↓: scroll table | q: quit (table) | ctrl+c: quit"))

	return s.String()
}

func (m Model) inputsView() string {
	boxes := make([]string, len(m.inputs))

	for i, in := range m.inputs {
		style := InputStyle
		if i == m.focus {
			style = FocusedInputStyle
		}

		boxes[i] = style.Render(in.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

// sender is the part of tea.Program the stream goroutine needs.
type sender interface {
	Send(msg tea.Msg)
}

// streamFeed forwards every item of source to p until the stream ends or ctx is cancelled.
func streamFeed(ctx context.Context, p sender, source feed.Source) {
	for set, err := range source.Stream(ctx) {
		if err != nil {
			p.Send(FeedErrorMsg{Err: err})

			continue
		}

		p.Send(SnapshotMsg{Set: set})
	}

	if ctx.Err() == nil {
		p.Send(FeedClosedMsg{})
	}
}
