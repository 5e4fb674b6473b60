package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/store"
)

// notificationMsg carries a notification to show as a toast.
type notificationMsg struct {
	notification model.Notification
}

// storeNotifier records notifications in the local log and queues them
// for the status bar.
type storeNotifier struct {
	store  store.Store
	logger *log.Logger
	ch     chan model.Notification
}

func newStoreNotifier(s store.Store, logger *log.Logger) *storeNotifier {
	return &storeNotifier{
		store:  s,
		logger: logger.With("component", "notifier"),
		ch:     make(chan model.Notification, 16),
	}
}

// Notify persists n and queues it for display. It never blocks on the UI.
func (n *storeNotifier) Notify(note model.Notification) {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.store.CreateNotification(ctx, note); err != nil {
		n.logger.Error("recording notification", "err", err)
	}

	select {
	case n.ch <- note:
	default:
		n.logger.Warn("toast queue full, dropping", "message", note.Message)
	}
}

// wait returns a tea.Cmd that blocks until the next notification.
func (n *storeNotifier) wait() tea.Cmd {
	return func() tea.Msg {
		return notificationMsg{notification: <-n.ch}
	}
}
