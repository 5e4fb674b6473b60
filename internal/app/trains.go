package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/trainadmin/internal/api"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/ui/notifications"
)

// trainSavedMsg is sent after a create or update request returns.
type trainSavedMsg struct {
	train model.Train
	err   error
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// cacheLoadedMsg is sent after the cached list was handed to the controller.
type cacheLoadedMsg struct {
	count int
	err   error
}

// createTrain sends draft to the backend through the list controller.
func (m Model) createTrain(draft model.CreateTrainDto) tea.Cmd {
	ctrl, timeout := m.ctrl, m.requestTimeout
	return m.saveTrain(func(ctx context.Context) (model.Train, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return ctrl.CreateTrain(ctx, draft)
	})
}

// updateTrain sends patch for id to the backend through the list controller.
func (m Model) updateTrain(id string, patch model.UpdateTrainDto) tea.Cmd {
	ctrl, timeout := m.ctrl, m.requestTimeout
	return m.saveTrain(func(ctx context.Context) (model.Train, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return ctrl.UpdateTrain(ctx, id, patch)
	})
}

// saveTrain runs save, caches the saved train and records failures in the
// notification log. Successes are recorded by the controller.
func (m Model) saveTrain(save func(ctx context.Context) (model.Train, error)) tea.Cmd {
	s, notifier, logger := m.store, m.notifier, m.logger
	return func() tea.Msg {
		ctx := context.Background()
		saved, err := save(ctx)
		if err != nil {
			notifier.Notify(model.Notification{
				Level:   model.LevelError,
				Message: api.Message(err),
			})
			return trainSavedMsg{err: err}
		}
		if err := s.UpsertTrain(ctx, saved); err != nil {
			logger.Error("caching saved train", "id", saved.ID, "err", err)
		}
		return trainSavedMsg{train: saved}
	}
}

// loadCached hands the cached list to the controller.
func (m Model) loadCached() tea.Cmd {
	p := m.poller
	return func() tea.Msg {
		n, err := p.LoadCached(context.Background())
		return cacheLoadedMsg{count: n, err: err}
	}
}

// fetchUnreadCount returns a tea.Cmd that queries the store for the
// number of unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		unread, err := s.GetUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(unread)}
	}
}

// loadNotifications reads the notification log.
func (m Model) loadNotifications() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		items, err := s.GetRecentNotifications(context.Background(), notificationLimit)
		return notifications.LoadedMsg{Notifications: items, Err: err}
	}
}

// markAllRead clears the unread badge.
func (m Model) markAllRead() tea.Cmd {
	s, logger := m.store, m.logger
	return func() tea.Msg {
		if err := s.MarkAllNotificationsRead(context.Background()); err != nil {
			logger.Error("marking notifications read", "err", err)
		}
		return notificationsReadMsg{}
	}
}

// notificationsReadMsg is sent after the log was marked read.
type notificationsReadMsg struct{}
