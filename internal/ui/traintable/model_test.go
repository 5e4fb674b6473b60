package traintable

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/keys"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/trainlist"
)

type stubService struct{}

func (stubService) Search(context.Context, string) ([]model.Train, error) { return nil, nil }

func (stubService) Create(context.Context, model.CreateTrainDto) (model.Train, error) {
	return model.Train{}, nil
}

func (stubService) Update(context.Context, string, model.UpdateTrainDto) (model.Train, error) {
	return model.Train{}, nil
}

func newTestTable(t *testing.T, trains []model.Train) (Model, *trainlist.Controller) {
	t.Helper()
	ctrl := trainlist.New(stubService{}, trainlist.Options{Clock: testclock.NewClock(time.Now())})
	t.Cleanup(ctrl.Close)
	ctrl.SetTrains(trains)

	m := New(ctrl, keys.DefaultKeyMap(), 120, 30)
	m, _ = m.Update(ChangedMsg{})
	return m, ctrl
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestRendersTrainsWithFormattedDates(t *testing.T) {
	m, _ := newTestTable(t, []model.Train{{
		ID: "1", Name: "Night Express", Origin: "Paris", Destination: "Rome",
		Departure: "2024-03-05", Arrival: "not yet",
	}})

	out := m.View()
	assert.Contains(t, out, "Night Express")
	assert.Contains(t, out, "05.03.2024")
	assert.Contains(t, out, "not yet")
}

func TestEmptyStateTexts(t *testing.T) {
	m, ctrl := newTestTable(t, nil)
	assert.Contains(t, m.View(), NoTrainsText)

	ctrl.SetSearchQuery("zzz")
	m, _ = m.Update(ChangedMsg{})
	assert.Contains(t, m.View(), NoMatchesText)
}

func TestTabCyclesSortLabels(t *testing.T) {
	m, ctrl := newTestTable(t, []model.Train{{ID: "1", Name: "B"}, {ID: "2", Name: "A"}})

	m, _ = m.Update(keyPress("tab"))
	m, _ = m.Update(ChangedMsg{})
	assert.Equal(t, model.SortName, ctrl.Snapshot().SortColumn)
	assert.Equal(t, "Name ↑", m.SortSummary())

	m, _ = m.Update(keyPress("tab"))
	m, _ = m.Update(ChangedMsg{})
	assert.Equal(t, model.SortDeparture, ctrl.Snapshot().SortColumn)

	m, _ = m.Update(keyPress("o"))
	m, _ = m.Update(ChangedMsg{})
	assert.Equal(t, model.SortDesc, ctrl.Snapshot().SortDirection)
	assert.Equal(t, "Departure ↓", m.SortSummary())
}

func TestNextSortLabelWraps(t *testing.T) {
	assert.Equal(t, "Name", nextSortLabel(model.SortNone))
	assert.Equal(t, "Name", nextSortLabel(model.SortDestination))
	assert.Equal(t, "Arrival", nextSortLabel(model.SortDeparture))
}

func TestTypingForwardsQuery(t *testing.T) {
	m, ctrl := newTestTable(t, []model.Train{{ID: "1", Name: "Night Express"}})

	m, _ = m.Update(keyPress("/"))
	require.True(t, m.Searching())
	m, _ = m.Update(keyPress("exp"))
	assert.Equal(t, "exp", ctrl.Snapshot().Query)

	m, _ = m.Update(keyPress("esc"))
	assert.False(t, m.Searching())
	assert.Empty(t, ctrl.Snapshot().Query)
}

func TestEnterOpensSelectedTrain(t *testing.T) {
	m, _ := newTestTable(t, []model.Train{{ID: "1", Name: "Night Express"}})

	_, cmd := m.Update(keyPress("enter"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(SelectedTrainMsg)
	require.True(t, ok)
	assert.Equal(t, "1", msg.Train.ID)

	_, cmd = m.Update(keyPress("e"))
	require.NotNil(t, cmd)
	assert.IsType(t, EditTrainMsg{}, cmd())
}
