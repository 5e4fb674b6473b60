package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/nhle/trainadmin/internal/model"
)

func TestHeaderBadge(t *testing.T) {
	l := NewLayout(80, 24)
	assert.NotContains(t, l.RenderHeader("Train Admin", 0, "synced"), "new]")
	out := l.RenderHeader("Train Admin", 3, "synced")
	assert.Contains(t, out, "Train Admin [3 new]")
	assert.Equal(t, 80, lipgloss.Width(out))
}

func TestStatusBarPrefersToast(t *testing.T) {
	l := NewLayout(80, 24)
	out := l.RenderStatusBar(nil, "? help", "Name ↑")
	assert.Contains(t, out, "? help")
	assert.Contains(t, out, "Name ↑")

	out = l.RenderStatusBar(&Toast{Level: model.LevelSuccess, Message: "Train created successfully"}, "? help", "")
	assert.Contains(t, out, "Train created successfully")
	assert.NotContains(t, out, "? help")
}

func TestContentHeight(t *testing.T) {
	assert.Equal(t, 22, NewLayout(80, 24).ContentHeight())
	assert.Equal(t, 1, NewLayout(80, 1).ContentHeight())
}
