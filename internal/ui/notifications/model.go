package notifications

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

// BackMsg signals the parent to leave the notification log.
type BackMsg struct{}

// LoadedMsg carries the notifications read from the store.
type LoadedMsg struct {
	Notifications []model.Notification
	Err           error
}

// Model lists recent notifications, newest first.
type Model struct {
	items    []model.Notification
	err      error
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates an empty notification log.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the notification log.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.items = msg.Notifications
		m.err = msg.Err
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the log.
func (m Model) View() string {
	return m.viewport.View()
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.viewport.SetContent(m.renderContent())
}

func (m Model) renderContent() string {
	if m.err != nil {
		return theme.ErrorTextStyle.Padding(0, 1).Render("Could not load notifications: " + m.err.Error())
	}
	if len(m.items) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications yet.")
	}

	lines := make([]string, 0, len(m.items))
	for _, n := range m.items {
		marker := " "
		if !n.Read {
			marker = "•"
		}
		lines = append(lines, fmt.Sprintf(" %s %s %s %s",
			marker,
			theme.DimmedStyle.Render(n.CreatedAt.Local().Format("02.01.2006 15:04")),
			theme.LevelStyle(n.Level).Width(8).Render(n.Level),
			n.Message,
		))
	}
	return strings.Join(lines, "\n")
}
