package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/trainadmin/internal/credential"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/ui/login"
)

// SessionExpiredMessage is shown on the login screen after a 401.
const SessionExpiredMessage = "Session expired, please sign in again"

// authResultMsg is sent after a sign in or sign up request returns.
type authResultMsg struct {
	err error
}

// loggedOutMsg is sent after the session was torn down.
type loggedOutMsg struct {
	reason string
}

// authenticate signs the user in or up and stores the new tokens.
func (m Model) authenticate(mode string, creds model.Credentials) tea.Cmd {
	auth, vault, logger, timeout := m.auth, m.creds, m.logger, m.requestTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var (
			tokens model.Tokens
			err    error
		)
		if mode == login.ModeSignUp {
			tokens, err = auth.SignUp(ctx, creds)
		} else {
			tokens, err = auth.SignIn(ctx, creds.Email, creds.Password)
		}
		if err != nil {
			logger.Warn("authentication failed", "mode", mode, "err", err)
			return authResultMsg{err: err}
		}

		if err := vault.SaveTokens(tokens); err != nil {
			// The session still works until the program exits.
			logger.Error("saving tokens", "err", err)
		}
		logger.Info("signed in", "mode", mode)
		return authResultMsg{}
	}
}

// endSession stops the background reload, forgets the tokens and empties
// the list. reason is shown on the login screen.
func (m Model) endSession(reason string) tea.Cmd {
	p, creds, client, ctrl, s, logger := m.poller, m.creds, m.client, m.ctrl, m.store, m.logger
	return func() tea.Msg {
		p.Stop()
		client.SetToken("")
		if err := creds.ClearTokens(); err != nil && !errors.Is(err, credential.ErrNotFound) {
			logger.Error("clearing tokens", "err", err)
		}
		ctrl.SetTrains(nil)
		if err := s.ReplaceTrains(context.Background(), nil); err != nil {
			logger.Error("clearing train cache", "err", err)
		}
		return loggedOutMsg{reason: reason}
	}
}
