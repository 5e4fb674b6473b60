package trainform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/model"
)

func TestBuildPatchKeepsOnlyChangedFields(t *testing.T) {
	orig := model.Train{
		ID: "7", Name: "Night Express", Origin: "Paris", Destination: "Rome",
		Departure: "2024-01-01 20:00", Arrival: "2024-01-02 09:00",
	}
	fb := bindingsFor(orig)
	fb.name = "  Night Express 2 "
	fb.arrival = "2024-01-02 10:00"

	patch := buildPatch(orig, fb)
	require.NotNil(t, patch.Name)
	assert.Equal(t, "Night Express 2", *patch.Name)
	require.NotNil(t, patch.Arrival)
	assert.Equal(t, "2024-01-02 10:00", *patch.Arrival)
	assert.Nil(t, patch.Origin)
	assert.Nil(t, patch.Destination)
	assert.Nil(t, patch.Departure)
	assert.Nil(t, patch.Number)
	assert.NoError(t, patch.Validate())
}

func TestBuildDraftTrims(t *testing.T) {
	draft := buildDraft(formBindings{
		name: " Express ", origin: "A", destination: "B",
		departure: "2024-01-01", arrival: "2024-01-02 ",
	})
	assert.Equal(t, "Express", draft.Name)
	assert.Equal(t, "2024-01-02", draft.Arrival)
	assert.NoError(t, draft.Validate())
}

func TestValidateTimestamp(t *testing.T) {
	required := validateTimestamp("Departure", true)
	assert.Error(t, required(""))
	assert.Error(t, required("tomorrow"))
	assert.NoError(t, required("2024-05-01 08:30"))

	optional := validateTimestamp("Arrival", false)
	assert.NoError(t, optional("  "))
	assert.Error(t, optional("31.12.2024"))
}

func TestStartEditPrefills(t *testing.T) {
	m := New(80, 24)
	m.StartEdit(model.Train{ID: "1", Name: "Orient", Origin: "Paris"})
	assert.Equal(t, "Orient", m.fb.name)
	assert.Equal(t, "Paris", m.fb.origin)
	assert.Contains(t, m.View(), "Edit Orient")

	m.StartCreate()
	assert.Empty(t, m.fb.name)
	assert.Contains(t, m.View(), "New Train")
}
