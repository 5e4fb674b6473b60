package traintable

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/trainadmin/internal/keys"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/theme"
	"github.com/nhle/trainadmin/internal/trainlist"
)

// Empty-state texts.
const (
	NoMatchesText = "No trains found."
	NoTrainsText  = "No trains available."
)

// ChangedMsg is sent when the list controller reports a state change.
type ChangedMsg struct{}

// SelectedTrainMsg is sent when the user opens a train's detail view.
type SelectedTrainMsg struct {
	Train model.Train
}

// NewTrainMsg asks the parent to open the create form.
type NewTrainMsg struct{}

// EditTrainMsg asks the parent to open the edit form for a train.
type EditTrainMsg struct {
	Train model.Train
}

// Model is the train table view. It renders the list controller's view
// state and forwards search and sort intents to it.
type Model struct {
	ctrl        *trainlist.Controller
	keys        *keys.KeyMap
	table       table.Model
	searchInput textinput.Model
	searchMode  bool
	spinner     spinner.Model
	spinning    bool
	state       trainlist.ViewState
	width       int
	height      int
}

// New creates a train table bound to ctrl.
func New(ctrl *trainlist.Controller, k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columnsFor(width)),
		table.WithFocused(true),
		table.WithHeight(max(1, height-4)),
	)
	t.SetStyles(tableStyles())

	si := textinput.New()
	si.Placeholder = "search trains..."
	si.Prompt = "/ "
	si.Width = width - 4

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctrl:        ctrl,
		keys:        k,
		table:       t,
		searchInput: si,
		spinner:     sp,
		state:       ctrl.Snapshot(),
		width:       width,
		height:      height,
	}
}

// Init subscribes to controller changes.
func (m Model) Init() tea.Cmd {
	return m.WaitForChange()
}

// WaitForChange returns a tea.Cmd that blocks until the controller state
// changes. It yields nil once the controller is closed.
func (m Model) WaitForChange() tea.Cmd {
	changes := m.ctrl.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}

// Update handles messages for the train table.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		m.Refresh()
		cmds := []tea.Cmd{m.WaitForChange()}
		if m.state.Searching && !m.spinning {
			m.spinning = true
			cmds = append(cmds, m.spinner.Tick)
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !m.state.Searching {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. Every edit
// is forwarded to the controller, which debounces the remote search.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.searchInput.Blur()
		m.ctrl.SetSearchQuery("")
		return m, nil
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.ctrl.SetSearchQuery(after)
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		train, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return SelectedTrainMsg{Train: train} }

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.state.Query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.New):
		return m, func() tea.Msg { return NewTrainMsg{} }

	case key.Matches(msg, m.keys.Edit):
		train, ok := m.Selected()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg { return EditTrainMsg{Train: train} }

	case key.Matches(msg, m.keys.CycleSort):
		m.ctrl.SetSortLabel(nextSortLabel(m.state.SortColumn), "")
		return m, nil

	case key.Matches(msg, m.keys.ToggleOrder):
		col := m.state.SortColumn
		if col == model.SortNone {
			col = model.SortName
		}
		m.ctrl.SetSort(col, m.state.SortDirection.Toggle())
		return m, nil
	}

	// Delegate to the table for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// nextSortLabel returns the picker label after the one for col. With no
// sort active the picker starts at Name.
func nextSortLabel(col model.SortColumn) string {
	if col == model.SortNone {
		return model.SortLabels[0]
	}
	i := slices.Index(model.SortLabels, col.Label())
	return model.SortLabels[(i+1)%len(model.SortLabels)]
}

// Refresh re-reads the controller state into the table.
func (m *Model) Refresh() {
	m.state = m.ctrl.Snapshot()

	rows := make([]table.Row, len(m.state.View))
	for i, t := range m.state.View {
		rows[i] = table.Row{
			t.Name,
			t.Number,
			t.Origin,
			t.Destination,
			model.FormatTimestamp(t.Departure),
			model.FormatTimestamp(t.Arrival),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// Selected returns the train under the cursor.
func (m Model) Selected() (model.Train, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.state.View) {
		return model.Train{}, false
	}
	return m.state.View[i], true
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SortSummary describes the active sort for the status bar.
func (m Model) SortSummary() string {
	if m.state.SortColumn == model.SortNone {
		return "unsorted"
	}
	arrow := "↑"
	if m.state.SortDirection == model.SortDesc {
		arrow = "↓"
	}
	return fmt.Sprintf("%s %s", m.state.SortColumn.Label(), arrow)
}

// View renders the search bar, any search error and the table.
func (m Model) View() string {
	var parts []string

	if bar := m.renderSearchBar(); bar != "" {
		parts = append(parts, bar)
	}
	if m.state.SearchError != "" {
		parts = append(parts, theme.ErrorTextStyle.Padding(0, 1).Render(m.state.SearchError))
	}

	if len(m.state.View) == 0 {
		parts = append(parts, m.renderEmptyState(len(parts)))
	} else {
		parts = append(parts, m.table.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderSearchBar() string {
	style := lipgloss.NewStyle().Foreground(theme.ColorWhite).Padding(0, 1)

	switch {
	case m.searchMode:
		bar := m.searchInput.View()
		if m.state.Searching {
			bar += " " + m.spinner.View()
		}
		return style.Render(bar)
	case m.state.Query != "":
		bar := "/ " + m.state.Query
		if m.state.Searching {
			bar += " " + m.spinner.View()
		}
		return style.Render(bar) + theme.HelpStyle.Render("  esc in search clears")
	}
	return ""
}

// renderEmptyState shows the empty-list text in the space left below the
// used lines.
func (m Model) renderEmptyState(used int) string {
	text := NoTrainsText
	if m.state.Query != "" {
		text = NoMatchesText
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Height(max(1, m.height-used)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// SetSize updates the table dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetColumns(columnsFor(width))
	m.table.SetHeight(max(1, height-4))
	m.searchInput.Width = width - 4
}

func columnsFor(width int) []table.Column {
	if width < 60 {
		return []table.Column{
			{Title: "Name", Width: max(8, width/2)},
			{Title: "No.", Width: 0},
			{Title: "From", Width: 0},
			{Title: "To", Width: 0},
			{Title: "Departure", Width: max(10, width/3)},
			{Title: "Arrival", Width: 0},
		}
	}
	available := width - 12 // cell padding
	return []table.Column{
		{Title: "Name", Width: max(10, available*26/100)},
		{Title: "No.", Width: max(6, available*10/100)},
		{Title: "From", Width: max(8, available*16/100)},
		{Title: "To", Width: max(8, available*16/100)},
		{Title: "Departure", Width: max(10, available*16/100)},
		{Title: "Arrival", Width: max(10, available*16/100)},
	}
}

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = theme.TableHeaderStyle.Padding(0, 1)
	s.Selected = s.Selected.
		Foreground(theme.SelectedItemStyle.GetForeground()).
		Bold(true)
	return s
}
