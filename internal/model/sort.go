package model

// SortColumn names a train attribute the list can be ordered by.
// The zero value means no sort is active.
type SortColumn string

const (
	SortNone        SortColumn = ""
	SortName        SortColumn = "name"
	SortDeparture   SortColumn = "departure"
	SortArrival     SortColumn = "arrival"
	SortOrigin      SortColumn = "origin"
	SortDestination SortColumn = "destination"
)

// SortDirection is the ordering direction.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortLabels lists the sort picker labels in display order.
var SortLabels = []string{"Name", "Departure", "Arrival", "Origin", "Destination"}

var labelToColumn = map[string]SortColumn{
	"Name":        SortName,
	"Departure":   SortDeparture,
	"Arrival":     SortArrival,
	"Origin":      SortOrigin,
	"Destination": SortDestination,
}

// ColumnForLabel maps a picker label to its column.
func ColumnForLabel(label string) (SortColumn, bool) {
	c, ok := labelToColumn[label]
	return c, ok
}

// Label returns the picker label for c, defaulting to "Name".
func (c SortColumn) Label() string {
	for label, col := range labelToColumn {
		if col == c {
			return label
		}
	}
	return "Name"
}

// IsTime reports whether c orders by timestamp.
func (c SortColumn) IsTime() bool {
	return c == SortDeparture || c == SortArrival
}

// Value returns the raw field of t that c orders by.
func (c SortColumn) Value(t Train) string {
	switch c {
	case SortName:
		return t.Name
	case SortDeparture:
		return t.Departure
	case SortArrival:
		return t.Arrival
	case SortOrigin:
		return t.Origin
	case SortDestination:
		return t.Destination
	default:
		return ""
	}
}

// ParseSortDirection accepts "asc" or "desc".
func ParseSortDirection(s string) (SortDirection, bool) {
	switch SortDirection(s) {
	case SortAsc, SortDesc:
		return SortDirection(s), true
	default:
		return "", false
	}
}

// Toggle returns the opposite direction.
func (d SortDirection) Toggle() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}
