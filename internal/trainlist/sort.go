package trainlist

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nhle/trainadmin/internal/model"
)

// sortTrains stably reorders trains in place by col and dir. With no
// column set the order is left as given.
func sortTrains(trains []model.Train, col model.SortColumn, dir model.SortDirection) {
	if col == model.SortNone || len(trains) < 2 {
		return
	}
	slices.SortStableFunc(trains, comparator(col, dir))
}

func comparator(col model.SortColumn, dir model.SortDirection) func(a, b model.Train) int {
	if col.IsTime() {
		return func(a, b model.Train) int {
			return compareTimestamps(col.Value(a), col.Value(b), dir)
		}
	}

	// A collator is not safe for concurrent use, so each sort gets its own.
	coll := collate.New(language.Und)
	return func(a, b model.Train) int {
		x := strings.ToLower(col.Value(a))
		y := strings.ToLower(col.Value(b))
		if dir == model.SortDesc {
			x, y = y, x
		}
		return coll.CompareString(x, y)
	}
}

// compareTimestamps orders two wire timestamps. Values that do not parse
// go last when ascending and first when descending; two of them tie.
func compareTimestamps(a, b string, dir model.SortDirection) int {
	ta, okA := model.ParseTimestamp(a)
	tb, okB := model.ParseTimestamp(b)

	invalidLast := 1
	if dir == model.SortDesc {
		invalidLast = -1
	}

	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return invalidLast
	case !okB:
		return -invalidLast
	}

	c := ta.Compare(tb)
	if dir == model.SortDesc {
		c = -c
	}
	return c
}
