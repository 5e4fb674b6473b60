package command

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/model"
)

func typeLine(m Model, line string) (Model, tea.Cmd) {
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return m.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestEnterEmitsParsedCommand(t *testing.T) {
	m := New(80, 24)
	_, cmd := typeLine(m, "sort arrival desc")
	require.NotNil(t, cmd)

	msg, ok := cmd().(CommandMsg)
	require.True(t, ok)
	assert.Equal(t, "Arrival", msg.SortLabel)
	assert.Equal(t, model.SortDesc, msg.SortDirection)
}

func TestEnterReportsParseErrors(t *testing.T) {
	m := New(80, 24)
	_, cmd := typeLine(m, "fly")
	require.NotNil(t, cmd)

	msg, ok := cmd().(CommandErrorMsg)
	require.True(t, ok)
	assert.Contains(t, msg.Err.Error(), "unknown command")
}

func TestEscCancels(t *testing.T) {
	m := New(80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, CancelMsg{}, cmd())
}
