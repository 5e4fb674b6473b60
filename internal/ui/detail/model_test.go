package detail

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/keys"
	"github.com/nhle/trainadmin/internal/model"
)

func TestShowRendersFields(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	assert.Contains(t, m.View(), "No train selected")

	m.Show(model.Train{
		ID: "t-1", Name: "Night Express", Number: "NJ 40",
		Origin: "Vienna", Destination: "Munich",
		Departure: "2024-03-05 21:10", Arrival: "tbd",
	})

	out := m.View()
	assert.Contains(t, out, "Night Express (NJ 40)")
	assert.Contains(t, out, "Vienna → Munich")
	assert.Contains(t, out, "05.03.2024")
	assert.Contains(t, out, "tbd")
}

func TestBackAndEdit(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	assert.Nil(t, cmd)

	m.Show(model.Train{ID: "t-1", Name: "Night Express"})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	msg, ok := cmd().(EditMsg)
	require.True(t, ok)
	assert.Equal(t, "t-1", msg.Train.ID)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, BackMsg{}, cmd())
}
