package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestTrainMergeTakesResponseAndKeepsID(t *testing.T) {
	base := Train{
		ID: "t1", Name: "Night Express", Number: "IC 12",
		Origin: "Berlin", Destination: "Vienna",
		Departure: "2024-01-01T22:00:00Z", Arrival: "2024-01-02T08:00:00Z",
	}
	resp := Train{
		ID: "other", Name: "Day Express",
		Origin: "Berlin", Destination: "Prague",
		Departure: base.Departure, Arrival: base.Arrival,
	}

	merged := base.Merge(resp)

	assert.Equal(t, "t1", merged.ID)
	assert.Equal(t, "Day Express", merged.Name)
	assert.Empty(t, merged.Number)
	assert.Equal(t, "Prague", merged.Destination)
	assert.Equal(t, base.Departure, merged.Departure)
}

func TestUpdateTrainDtoApply(t *testing.T) {
	base := Train{ID: "t1", Name: "A", Origin: "X"}
	patch := UpdateTrainDto{Name: strPtr("B"), Number: strPtr("")}

	got := patch.Apply(base)

	assert.Equal(t, Train{ID: "t1", Name: "B", Origin: "X"}, got)
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-01-01", true},
		{"2024-01-01T10:30:00Z", true},
		{"2024-01-01T10:30:00.123+02:00", true},
		{"2024-01-01 10:30", true},
		{"invalid", false},
		{"", false},
		{"2024-13-40", false},
	}
	for _, tc := range cases {
		_, ok := ParseTimestamp(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "05.03.2024", FormatDate(d))

	assert.Equal(t, "01.01.2024", FormatTimestamp("2024-01-01"))
	assert.Equal(t, "invalid", FormatTimestamp("invalid"))
}

func TestCreateTrainDtoValidate(t *testing.T) {
	valid := CreateTrainDto{
		Name: "Express", Origin: "A", Destination: "B",
		Departure: "2024-01-01", Arrival: "2024-01-02",
	}
	require.NoError(t, valid.Validate())

	missing := valid
	missing.Name = ""
	err := missing.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")

	badDate := valid
	badDate.Arrival = "soon"
	err = badDate.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "arrival must be a valid date")
}

func TestUpdateTrainDtoValidate(t *testing.T) {
	require.NoError(t, UpdateTrainDto{}.Validate())
	require.NoError(t, UpdateTrainDto{Departure: strPtr("2024-05-01")}.Validate())

	err := UpdateTrainDto{Departure: strPtr("tomorrow")}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "departure must be a valid date")
}

func TestCredentialsValidate(t *testing.T) {
	require.NoError(t, Credentials{Email: "ops@example.com", Password: "secret"}.Validate())

	err := Credentials{Email: "not-an-email", Password: "secret"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
}

func TestSortColumnLabels(t *testing.T) {
	for _, label := range SortLabels {
		col, ok := ColumnForLabel(label)
		require.True(t, ok, label)
		assert.Equal(t, label, col.Label())
	}
	_, ok := ColumnForLabel("Speed")
	assert.False(t, ok)
	assert.Equal(t, "Name", SortNone.Label())
	assert.True(t, SortArrival.IsTime())
	assert.False(t, SortOrigin.IsTime())
}
