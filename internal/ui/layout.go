package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/theme"
)

// Layout splits the terminal into header, content and status bar rows.
type Layout struct {
	Width  int
	Height int
}

// Toast is a short-lived message shown in place of the key hints.
type Toast struct {
	Level   string
	Message string
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentHeight returns the rows left for the active view.
func (l Layout) ContentHeight() int {
	return max(1, l.Height-2)
}

// RenderHeader renders the title on the left and status on the right.
// A non-zero unread count is shown as a badge next to the title.
func (l Layout) RenderHeader(title string, unread int, status string) string {
	if unread > 0 {
		title = fmt.Sprintf("%s [%d new]", title, unread)
	}
	return l.fill(theme.HeaderStyle, title, status)
}

// RenderStatusBar renders the toast, or the hints when there is none, with
// right on the far side.
func (l Layout) RenderStatusBar(toast *Toast, hints, right string) string {
	if toast == nil {
		return l.fill(theme.StatusBarStyle, hints, right)
	}

	label := theme.LevelStyle(toast.Level).
		Background(theme.StatusBarStyle.GetBackground()).
		Render(toastMarker(toast.Level))
	left := label + theme.StatusBarStyle.Render(toast.Message)
	return l.fill(theme.StatusBarStyle, left, right)
}

// Frame joins header, content and status bar vertically.
func (l Layout) Frame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// fill renders left and right in style, padding the gap between them to
// the full width.
func (l Layout) fill(style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	rightRendered := ""
	if right != "" {
		rightRendered = style.Render(right)
	}

	gap := max(0, l.Width-lipgloss.Width(leftRendered)-lipgloss.Width(rightRendered))
	filler := lipgloss.NewStyle().
		Width(gap).
		Background(style.GetBackground()).
		Render("")

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}

func toastMarker(level string) string {
	switch level {
	case model.LevelSuccess:
		return " ✓"
	case model.LevelError:
		return " ✗"
	default:
		return " •"
	}
}
