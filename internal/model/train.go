package model

import (
	"strings"
	"time"
)

// Train is a single train record as served by the backend.
type Train struct {
	// ID is assigned by the server and never changes.
	ID string `json:"id" db:"id"`

	// Name is the human-readable train name (e.g., "Night Express").
	Name string `json:"name" db:"name"`

	// Number is the optional service number. It only takes part in
	// matching after an update.
	Number string `json:"number,omitempty" db:"number"`

	Origin      string `json:"origin" db:"origin"`
	Destination string `json:"destination" db:"destination"`

	// Departure and Arrival are kept as the wire strings. Use
	// ParseTimestamp to interpret them.
	Departure string `json:"departure" db:"departure"`
	Arrival   string `json:"arrival" db:"arrival"`
}

// CreateTrainDto is the payload for creating a train. The server assigns the ID.
type CreateTrainDto struct {
	Name        string `json:"name" validate:"required"`
	Number      string `json:"number,omitempty"`
	Origin      string `json:"origin" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Departure   string `json:"departure" validate:"required,timestamp"`
	Arrival     string `json:"arrival" validate:"required,timestamp"`
}

// UpdateTrainDto is a partial update. Nil fields are left untouched by the server.
type UpdateTrainDto struct {
	Name        *string `json:"name,omitempty"`
	Number      *string `json:"number,omitempty"`
	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`
	Departure   *string `json:"departure,omitempty" validate:"omitempty,timestamp"`
	Arrival     *string `json:"arrival,omitempty" validate:"omitempty,timestamp"`
}

// Merge returns the server copy updated with the ID of t. Empty fields in
// updated are kept empty so cleared values are not resurrected.
func (t Train) Merge(updated Train) Train {
	updated.ID = t.ID
	return updated
}

// Apply returns t with the non-nil fields of the patch applied.
func (p UpdateTrainDto) Apply(t Train) Train {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Number != nil {
		t.Number = *p.Number
	}
	if p.Origin != nil {
		t.Origin = *p.Origin
	}
	if p.Destination != nil {
		t.Destination = *p.Destination
	}
	if p.Departure != nil {
		t.Departure = *p.Departure
	}
	if p.Arrival != nil {
		t.Arrival = *p.Arrival
	}
	return t
}

// timestampLayouts are tried in order by ParseTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp interprets a departure/arrival wire value. Values without
// a zone are read in local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as dd.mm.yyyy using its local calendar fields.
func FormatDate(t time.Time) string {
	return t.Local().Format("02.01.2006")
}

// FormatTimestamp formats a wire timestamp with FormatDate. Values that do
// not parse are returned unchanged.
func FormatTimestamp(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return s
	}
	return FormatDate(t)
}
