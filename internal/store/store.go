package store

import (
	"context"

	"github.com/nhle/trainadmin/internal/model"
)

// Store defines the local persistence interface: a cache of the
// authoritative train list and a log of user notifications.
type Store interface {
	// === Train cache ===

	ReplaceTrains(ctx context.Context, trains []model.Train) error
	UpsertTrain(ctx context.Context, train model.Train) error
	GetTrains(ctx context.Context) ([]model.Train, error)
	GetTrainByID(ctx context.Context, id string) (*model.Train, error)

	// === Notifications ===

	CreateNotification(ctx context.Context, n model.Notification) error
	GetRecentNotifications(ctx context.Context, limit int) ([]model.Notification, error)
	GetUnreadNotifications(ctx context.Context) ([]model.Notification, error)
	MarkAllNotificationsRead(ctx context.Context) error
}
