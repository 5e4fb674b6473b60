package command

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/model"
)

func TestParse(t *testing.T) {
	cases := []struct {
		input string
		want  Parsed
	}{
		{"refresh", Parsed{Name: Refresh}},
		{"  sync ", Parsed{Name: Refresh}},
		{"q", Parsed{Name: Quit}},
		{"new", Parsed{Name: NewTrain}},
		{"log", Parsed{Name: Notifications}},
		{"sort departure", Parsed{Name: Sort, SortLabel: "Departure"}},
		{"sort NAME desc", Parsed{Name: Sort, SortLabel: "Name", SortDirection: model.SortDesc}},
	}

	for _, tc := range cases {
		got, err := Parse(tc.input)
		require.NoError(t, err, tc.input)
		assert.Equal(t, tc.want, got, tc.input)
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"launch",
		"sort",
		"sort speed",
		"sort name sideways",
		"sort name asc extra",
		"logout now",
	} {
		_, err := Parse(input)
		assert.Error(t, err, input)
	}
}

func TestTitleCaseKeepsMultiByteRunes(t *testing.T) {
	assert.Equal(t, "Departure", titleCase("dEPARTURE"))
	assert.Equal(t, "Ärrival", titleCase("ärrival"))
	assert.Equal(t, "Éta", titleCase("ÉTA"))
}

func TestParseSortMultiByteColumn(t *testing.T) {
	_, err := Parse("sort ärrival")
	require.Error(t, err)
	assert.True(t, utf8.ValidString(err.Error()))
	assert.Contains(t, err.Error(), "ärrival")
}
