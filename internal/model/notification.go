package model

import "time"

// Notification levels.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

// Notification is a short user-facing message about the outcome of an
// action, shown as a toast and kept in the local log.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// TrainID links this notification to the affected train, if any.
	TrainID string `json:"train_id" db:"train_id"`

	// Level is one of the Level* constants.
	Level string `json:"level" db:"level"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Read indicates whether the user has dismissed this notification.
	Read bool `json:"read" db:"read"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
