package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/trainadmin/internal/keys"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// EditMsg asks the parent to open the edit form for the shown train.
type EditMsg struct {
	Train model.Train
}

// Model is the train detail view component.
type Model struct {
	train    *model.Train
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Show replaces the displayed train.
func (m *Model) Show(t model.Train) {
	m.train = &t
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Train returns the displayed train, if any.
func (m Model) Train() (model.Train, bool) {
	if m.train == nil {
		return model.Train{}, false
	}
	return *m.train, true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Edit):
			if m.train != nil {
				t := *m.train
				return m, func() tea.Msg { return EditMsg{Train: t} }
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.train == nil {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No train selected")
	}
	return m.viewport.View()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.train != nil {
		m.viewport.SetContent(m.renderContent())
	}
}

// renderContent builds the detail content string for the viewport.
func (m Model) renderContent() string {
	t := m.train
	if t == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(12)

	title := t.Name
	if t.Number != "" {
		title = fmt.Sprintf("%s (%s)", t.Name, t.Number)
	}

	field := func(label, value string) string {
		if value == "" {
			value = theme.DimmedStyle.Render("-")
		}
		return labelStyle.Render(label) + value
	}

	rows := []string{
		titleStyle.Render(title),
		"",
		field("Route", fmt.Sprintf("%s → %s", t.Origin, t.Destination)),
		field("Departure", timestamp(t.Departure)),
		field("Arrival", timestamp(t.Arrival)),
		field("ID", theme.DimmedStyle.Render(t.ID)),
		"",
		theme.HelpStyle.Render("e edit • esc back"),
	}

	return theme.DetailPanelStyle.
		Width(max(20, m.width-4)).
		Render(strings.Join(rows, "\n"))
}

// timestamp renders the formatted date with the raw value when they differ.
func timestamp(raw string) string {
	formatted := model.FormatTimestamp(raw)
	if formatted == raw {
		return raw
	}
	return fmt.Sprintf("%s %s", formatted, theme.DimmedStyle.Render("("+raw+")"))
}
