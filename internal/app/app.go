package app

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/juju/clock"

	"github.com/nhle/trainadmin/internal/api"
	"github.com/nhle/trainadmin/internal/credential"
	"github.com/nhle/trainadmin/internal/keys"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/store"
	appsync "github.com/nhle/trainadmin/internal/sync"
	"github.com/nhle/trainadmin/internal/theme"
	"github.com/nhle/trainadmin/internal/trainlist"
	"github.com/nhle/trainadmin/internal/ui"
	"github.com/nhle/trainadmin/internal/ui/command"
	"github.com/nhle/trainadmin/internal/ui/detail"
	helpview "github.com/nhle/trainadmin/internal/ui/help"
	"github.com/nhle/trainadmin/internal/ui/login"
	"github.com/nhle/trainadmin/internal/ui/notifications"
	"github.com/nhle/trainadmin/internal/ui/trainform"
	"github.com/nhle/trainadmin/internal/ui/traintable"
)

const (
	toastDuration     = 4 * time.Second
	notificationLimit = 100
	appTitle          = "Train Admin"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewList
	ViewDetail
	ViewHelp
	ViewCommand
	ViewCreate
	ViewEdit
	ViewNotifications
)

// toastExpiredMsg hides the toast with the given id.
type toastExpiredMsg struct {
	id int
}

// Deps are the services the root model is built on.
type Deps struct {
	Config      *model.AppConfig
	Store       store.Store
	Credentials *credential.Store
	Client      *api.Client
	Logger      *log.Logger
	Clock       clock.Clock
}

// Model is the root Bubble Tea model. It routes messages between the
// views and owns the session, the list controller and the reload loop.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	ready        bool

	store          store.Store
	creds          *credential.Store
	client         *api.Client
	auth           *api.AuthService
	ctrl           *trainlist.Controller
	poller         *appsync.Poller
	notifier       *storeNotifier
	logger         *log.Logger
	requestTimeout time.Duration

	login             login.Model
	table             traintable.Model
	detail            detail.Model
	helpView          helpview.Model
	commandView       command.Model
	form              trainform.Model
	notificationsView notifications.Model

	toast       *ui.Toast
	toastID     int
	unreadCount int
	syncErr     string
}

// New creates the root model. Without an access token on the client the
// program starts on the login screen.
func New(d Deps) Model {
	logger := d.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	cfg := d.Config
	theme.Apply(cfg.Display.Theme)

	k := keys.DefaultKeyMap()
	notifier := newStoreNotifier(d.Store, logger)
	trains := api.NewTrainService(d.Client)

	ctrl := trainlist.New(trains, trainlist.Options{
		Clock:    d.Clock,
		Debounce: cfg.List.SearchDebounce(),
		Logger:   logger,
		Notifier: notifier,
	})
	p := appsync.New(trains, d.Store, ctrl, appsync.Options{
		Interval: cfg.List.PollInterval(),
		Clock:    d.Clock,
		Logger:   logger,
	})

	timeout := cfg.API.Timeout() * time.Duration(cfg.API.MaxRetries+1)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	m := Model{
		currentView:       ViewList,
		previousView:      ViewList,
		keys:              k,
		store:             d.Store,
		creds:             d.Credentials,
		client:            d.Client,
		auth:              api.NewAuthService(d.Client),
		ctrl:              ctrl,
		poller:            p,
		notifier:          notifier,
		logger:            logger.With("component", "app"),
		requestTimeout:    timeout,
		login:             login.New(80, 24),
		table:             traintable.New(ctrl, k, 80, 24),
		detail:            detail.New(k, 80, 24),
		helpView:          helpview.New(k, 80, 24),
		commandView:       command.New(80, 24),
		form:              trainform.New(80, 24),
		notificationsView: notifications.New(k, 80, 24),
	}
	if d.Client.Token() == "" {
		m.currentView = ViewLogin
		m.login.Start()
	}
	return m
}

// Init subscribes to list changes and notifications, then either shows
// the login form or starts the session.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.table.Init(),
		m.notifier.wait(),
		m.fetchUnreadCount(),
	}
	if m.currentView == ViewLogin {
		cmds = append(cmds, m.login.Init())
	} else {
		cmds = append(cmds, m.loadCached())
	}
	return tea.Batch(cmds...)
}

// Shutdown stops the reload loop and the list controller. Call it after
// the program has exited.
func (m Model) Shutdown() {
	m.poller.Stop()
	m.ctrl.Close()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := msg.Width, m.layout.ContentHeight()
		m.login.SetSize(w, h)
		m.table.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.form.SetSize(w, h)
		m.notificationsView.SetSize(w, h)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	// The table keeps its controller subscription and spinner alive
	// whichever view is shown.
	case traintable.ChangedMsg, spinner.TickMsg:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	// === Session ===

	case login.SubmittedMsg:
		return m, m.authenticate(msg.Mode, msg.Credentials)

	case authResultMsg:
		if msg.err != nil {
			m.login.SetError(api.Message(msg.err))
			cmd := m.login.Start()
			return m, cmd
		}
		m.login.SetError("")
		m.currentView = ViewList
		return m, tea.Batch(m.loadCached(), m.fetchUnreadCount())

	case cacheLoadedMsg:
		if m.currentView == ViewLogin {
			return m, nil
		}
		if msg.err != nil {
			m.logger.Warn("loading cached trains", "err", msg.err)
		} else {
			m.logger.Debug("loaded cached trains", "count", msg.count)
		}
		return m, m.poller.Start()

	case loggedOutMsg:
		m.currentView = ViewLogin
		m.syncErr = ""
		m.toast = nil
		m.login.SetError(msg.reason)
		cmd := m.login.Start()
		return m, cmd

	case appsync.ReloadResultMsg:
		if msg.AuthError {
			return m, m.endSession(SessionExpiredMessage)
		}
		m.syncErr = ""
		if msg.Error != nil {
			m.syncErr = api.Message(msg.Error)
		}
		return m, m.poller.WaitForNextResult()

	// === Notifications ===

	case notificationMsg:
		n := msg.notification
		toast := m.showToast(n.Level, n.Message)
		return m, tea.Batch(toast, m.notifier.wait(), m.fetchUnreadCount())

	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = nil
		}
		return m, nil

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case notificationsReadMsg:
		cmds := []tea.Cmd{m.fetchUnreadCount()}
		if m.currentView == ViewNotifications {
			cmds = append(cmds, m.loadNotifications())
		}
		return m, tea.Batch(cmds...)

	case notifications.LoadedMsg:
		var cmd tea.Cmd
		m.notificationsView, cmd = m.notificationsView.Update(msg)
		return m, cmd

	case notifications.BackMsg:
		m.currentView = ViewList
		return m, nil

	// === Trains ===

	case traintable.SelectedTrainMsg:
		m.detail.Show(msg.Train)
		m.currentView = ViewDetail
		return m, nil

	case traintable.NewTrainMsg:
		return m.openCreate()

	case traintable.EditTrainMsg:
		return m.openEdit(msg.Train)

	case detail.EditMsg:
		return m.openEdit(msg.Train)

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case trainform.CreateSubmittedMsg:
		m.currentView = m.previousView
		return m, m.createTrain(msg.Draft)

	case trainform.UpdateSubmittedMsg:
		m.currentView = m.previousView
		return m, m.updateTrain(msg.ID, msg.Patch)

	case trainform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case trainSavedMsg:
		if msg.err != nil {
			if api.IsAuthError(msg.err) {
				return m, m.endSession(SessionExpiredMessage)
			}
			return m, nil
		}
		if shown, ok := m.detail.Train(); ok && shown.ID == msg.train.ID {
			m.detail.Show(msg.train)
		}
		return m, nil

	// === Command palette ===

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(command.Parsed(msg))

	case command.CommandErrorMsg:
		m.currentView = m.previousView
		cmd := m.showToast(model.LevelError, msg.Err.Error())
		return m, cmd

	case command.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// handleGlobalKeys processes keys that work across the browsing views.
// Views with text entry receive every key themselves.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if m.currentView == ViewHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	}

	browsing := m.currentView == ViewDetail ||
		m.currentView == ViewNotifications ||
		(m.currentView == ViewList && !m.table.Searching())
	if !browsing {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.currentView == ViewList {
			return m, tea.Quit, true
		}

	case key.Matches(msg, m.keys.Help):
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.previousView = m.currentView
		m.currentView = ViewCommand
		cmd := m.commandView.Focus()
		return m, cmd, true

	case key.Matches(msg, m.keys.Refresh):
		m.poller.Refresh()
		return m, nil, true

	case key.Matches(msg, m.keys.Notifications):
		next, cmd := m.openNotifications()
		return next, cmd, true
	}

	return m, nil, false
}

// executeCommand runs a parsed palette command.
func (m Model) executeCommand(p command.Parsed) (tea.Model, tea.Cmd) {
	switch p.Name {
	case command.Refresh:
		m.poller.Refresh()
		cmd := m.showToast(model.LevelInfo, "Reloading trains")
		return m, cmd
	case command.Clear:
		m.ctrl.SetSearchQuery("")
		return m, nil
	case command.NewTrain:
		return m.openCreate()
	case command.Sort:
		m.ctrl.SetSortLabel(p.SortLabel, p.SortDirection)
		return m, nil
	case command.Notifications:
		return m.openNotifications()
	case command.Read:
		return m, m.markAllRead()
	case command.Logout:
		return m, m.endSession("")
	case command.Quit:
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) openCreate() (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewCreate
	cmd := m.form.StartCreate()
	return m, cmd
}

func (m Model) openEdit(t model.Train) (tea.Model, tea.Cmd) {
	m.previousView = m.currentView
	m.currentView = ViewEdit
	cmd := m.form.StartEdit(t)
	return m, cmd
}

func (m Model) openNotifications() (tea.Model, tea.Cmd) {
	m.currentView = ViewNotifications
	return m, m.loadNotifications()
}

// showToast displays message in the status bar until it expires or a
// newer toast replaces it.
func (m *Model) showToast(level, message string) tea.Cmd {
	m.toastID++
	id := m.toastID
	m.toast = &ui.Toast{Level: level, Message: message}
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewList:
		m.table, cmd = m.table.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewCreate, ViewEdit:
		m.form, cmd = m.form.Update(msg)
	case ViewNotifications:
		m.notificationsView, cmd = m.notificationsView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.currentView == ViewLogin {
		return m.layout.Frame(
			m.layout.RenderHeader(appTitle, 0, ""),
			m.login.View(),
			m.layout.RenderStatusBar(nil, "enter next | ctrl+c quit", ""),
		)
	}

	right := ""
	if m.currentView == ViewList {
		right = "sort: " + m.table.SortSummary()
	}

	return m.layout.Frame(
		m.layout.RenderHeader(appTitle, m.unreadCount, m.syncStatus()),
		m.renderContent(),
		m.layout.RenderStatusBar(m.toast, m.keyHints(), right),
	)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.table.View()
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewCreate, ViewEdit:
		return m.form.View()
	case ViewNotifications:
		return m.notificationsView.View()
	default:
		return ""
	}
}

// syncStatus describes the reload loop for the header.
func (m Model) syncStatus() string {
	status := m.poller.Status()
	switch {
	case status.State == appsync.SyncRunning:
		return "reloading..."
	case m.syncErr != "":
		return "⚠ " + m.syncErr
	case !status.LastSync.IsZero():
		return fmt.Sprintf("synced %s", status.LastSync.Local().Format("15:04"))
	}
	return "not synced"
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "e edit | esc back | j/k scroll"
	case ViewCreate, ViewEdit:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return ":read mark read | esc back"
	default:
		if m.table.Searching() {
			return "enter done | esc clear"
		}
		return "q quit | ? help | / search | n new | e edit | tab sort | o order"
	}
}
