package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/trainadmin/internal/api"
	"github.com/nhle/trainadmin/internal/credential"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/store"
	appsync "github.com/nhle/trainadmin/internal/sync"
	"github.com/nhle/trainadmin/internal/ui/command"
	"github.com/nhle/trainadmin/internal/ui/login"
	"github.com/nhle/trainadmin/internal/ui/traintable"
	"github.com/nhle/trainadmin/tests/testutil"
)

type testApp struct {
	model  Model
	store  *store.SQLiteStore
	creds  *credential.Store
	client *api.Client
}

func newTestApp(t *testing.T, h http.Handler, token string) *testApp {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	s := testutil.NewTestStore(t)
	creds := credential.NewMemory()
	client := api.NewClient(model.APIConfig{BaseURL: srv.URL, TimeoutSec: 5}, nil)
	client.SetToken(token)

	cfg := &model.AppConfig{
		API:  model.APIConfig{BaseURL: srv.URL, TimeoutSec: 5},
		List: model.ListConfig{SearchDebounceMs: 300, PollIntervalSec: 60},
	}
	m := New(Deps{
		Config:      cfg,
		Store:       s,
		Credentials: creds,
		Client:      client,
		Clock:       testclock.NewClock(time.Now()),
	})
	t.Cleanup(m.Shutdown)

	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return &testApp{model: m, store: s, creds: creds, client: client}
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestStartViewDependsOnToken(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "")
	assert.Equal(t, ViewLogin, ta.model.currentView)

	ta = newTestApp(t, http.NotFoundHandler(), "tok")
	assert.Equal(t, ViewList, ta.model.currentView)
}

func TestSignInStoresTokens(t *testing.T) {
	ta := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/signin", r.URL.Path)
		writeJSON(w, http.StatusOK, model.Tokens{AccessToken: "acc", RefreshToken: "ref"})
	}), "")

	msg := ta.model.authenticate(login.ModeSignIn, model.Credentials{Email: "ops@example.com", Password: "pw"})()
	res, ok := msg.(authResultMsg)
	require.True(t, ok)
	require.NoError(t, res.err)

	tokens, err := ta.creds.LoadTokens()
	require.NoError(t, err)
	assert.Equal(t, model.Tokens{AccessToken: "acc", RefreshToken: "ref"}, tokens)
	assert.Equal(t, "acc", ta.client.Token())

	m, cmd := update(ta.model, res)
	assert.Equal(t, ViewList, m.currentView)
	assert.NotNil(t, cmd)
}

func TestSignInFailureShowsServerMessage(t *testing.T) {
	ta := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	}), "")

	msg := ta.model.authenticate(login.ModeSignIn, model.Credentials{Email: "ops@example.com", Password: "bad"})()
	m, _ := update(ta.model, msg)
	assert.Equal(t, ViewLogin, m.currentView)
	assert.Contains(t, m.View(), "Invalid credentials")
}

func TestReloadAuthErrorEndsSession(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "tok")
	require.NoError(t, ta.creds.SaveTokens(model.Tokens{AccessToken: "tok", RefreshToken: "ref"}))

	m, cmd := update(ta.model, appsync.ReloadResultMsg{Error: &api.AuthError{Status: 401}, AuthError: true})
	require.NotNil(t, cmd)
	out, ok := cmd().(loggedOutMsg)
	require.True(t, ok)

	_, err := ta.creds.LoadTokens()
	assert.ErrorIs(t, err, credential.ErrNotFound)
	assert.Empty(t, ta.client.Token())

	m, _ = update(m, out)
	assert.Equal(t, ViewLogin, m.currentView)
	assert.Contains(t, m.View(), SessionExpiredMessage)
}

func TestReloadErrorShownInHeader(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "tok")

	m, _ := update(ta.model, appsync.ReloadResultMsg{Error: &api.ServerError{Status: 502, Message: "Bad gateway"}})
	assert.Contains(t, m.View(), "Bad gateway")

	m, _ = update(m, appsync.ReloadResultMsg{Count: 2})
	assert.NotContains(t, m.View(), "Bad gateway")
}

func TestSortCommandReachesController(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "tok")

	m, _ := update(ta.model, command.CommandMsg{Name: command.Sort, SortLabel: "Departure", SortDirection: model.SortDesc})
	state := m.ctrl.Snapshot()
	assert.Equal(t, model.SortDeparture, state.SortColumn)
	assert.Equal(t, model.SortDesc, state.SortDirection)

	m, _ = update(m, traintable.ChangedMsg{})
	assert.Contains(t, m.View(), "Departure ↓")
}

func TestCreateSuccessCachesAndNotifies(t *testing.T) {
	ta := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var draft model.CreateTrainDto
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		writeJSON(w, http.StatusCreated, model.Train{
			ID: "new", Name: draft.Name, Origin: draft.Origin, Destination: draft.Destination,
			Departure: draft.Departure, Arrival: draft.Arrival,
		})
	}), "tok")

	msg := ta.model.createTrain(model.CreateTrainDto{
		Name: "Night Express", Origin: "Vienna", Destination: "Munich",
		Departure: "2024-05-01 21:10", Arrival: "2024-05-02 06:40",
	})()
	saved, ok := msg.(trainSavedMsg)
	require.True(t, ok)
	require.NoError(t, saved.err)

	ctx := context.Background()
	cached, err := ta.store.GetTrainByID(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "Night Express", cached.Name)

	unread, err := ta.store.GetUnreadNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, model.LevelSuccess, unread[0].Level)
	assert.Equal(t, "Train created successfully", unread[0].Message)

	m, _ := update(ta.model, ta.model.notifier.wait()())
	require.NotNil(t, m.toast)
	assert.Equal(t, "Train created successfully", m.toast.Message)
	assert.Len(t, m.ctrl.Snapshot().View, 1)
}

func TestCreateFailureRecordsError(t *testing.T) {
	ta := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Train number already taken"})
	}), "tok")

	msg := ta.model.createTrain(model.CreateTrainDto{
		Name: "Night Express", Number: "NJ 40", Origin: "Vienna", Destination: "Munich",
		Departure: "2024-05-01 21:10", Arrival: "2024-05-02 06:40",
	})()
	saved := msg.(trainSavedMsg)
	require.Error(t, saved.err)
	assert.True(t, api.IsValidation(saved.err))

	recent, err := ta.store.GetRecentNotifications(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, model.LevelError, recent[0].Level)
	assert.Equal(t, "Train number already taken", recent[0].Message)

	m, _ := update(ta.model, ta.model.notifier.wait()())
	require.NotNil(t, m.toast)
	assert.Equal(t, model.LevelError, m.toast.Level)
	assert.Empty(t, m.ctrl.Snapshot().View)
}

func TestToastExpiresById(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "tok")
	m := ta.model

	m.showToast(model.LevelInfo, "first")
	m.showToast(model.LevelInfo, "second")

	m, _ = update(m, toastExpiredMsg{id: m.toastID - 1})
	require.NotNil(t, m.toast)
	assert.Equal(t, "second", m.toast.Message)

	m, _ = update(m, toastExpiredMsg{id: m.toastID})
	assert.Nil(t, m.toast)
}

func TestGlobalKeysRouteViews(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "tok")
	m := ta.model

	m, _ = update(m, runes("?"))
	assert.Equal(t, ViewHelp, m.currentView)
	m, _ = update(m, runes("?"))
	assert.Equal(t, ViewList, m.currentView)

	m, _ = update(m, runes(":"))
	assert.Equal(t, ViewCommand, m.currentView)
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	assert.Equal(t, ViewList, m.currentView)

	m, cmd = update(m, runes("n"))
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	assert.Equal(t, ViewCreate, m.currentView)
	assert.Contains(t, m.View(), "New Train")
}

func TestNotificationsViewAndRead(t *testing.T) {
	ta := newTestApp(t, http.NotFoundHandler(), "tok")
	ctx := context.Background()
	require.NoError(t, ta.store.CreateNotification(ctx, model.Notification{
		Level: model.LevelError, Message: "Failed to search trains",
	}))

	m, cmd := update(ta.model, command.CommandMsg{Name: command.Notifications})
	assert.Equal(t, ViewNotifications, m.currentView)
	require.NotNil(t, cmd)
	m, _ = update(m, cmd())
	assert.Contains(t, m.View(), "Failed to search trains")

	m, _ = update(m, m.fetchUnreadCount()())
	assert.Contains(t, m.View(), "[1 new]")

	m, _ = update(m, m.markAllRead()())
	m, _ = update(m, m.fetchUnreadCount()())
	assert.NotContains(t, m.View(), "new]")
}
