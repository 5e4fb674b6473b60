package sync

import (
	"context"
	"io"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/juju/clock"

	"github.com/nhle/trainadmin/internal/api"
	"github.com/nhle/trainadmin/internal/model"
	"github.com/nhle/trainadmin/internal/store"
)

// SyncState represents the current state of the reload loop.
type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncError
)

// SyncStatus holds the state of the most recent reload.
type SyncStatus struct {
	State    SyncState
	LastSync time.Time
	Error    error
}

// ReloadResultMsg is a tea.Msg sent when a reload completes.
type ReloadResultMsg struct {
	Count     int
	Error     error
	AuthError bool
	Cached    bool
}

// Lister fetches the authoritative train list.
type Lister interface {
	List(ctx context.Context) ([]model.Train, error)
}

// Sink receives each freshly loaded list.
type Sink interface {
	SetTrains(trains []model.Train)
}

// fetchTimeout is the maximum time allowed for a single fetch operation.
const fetchTimeout = 30 * time.Second

// Options configures a Poller.
type Options struct {
	Interval time.Duration
	Clock    clock.Clock
	Logger   *log.Logger
}

// Poller reloads the authoritative train list in the background, caches it
// in the store and hands it to the sink.
type Poller struct {
	lister   Lister
	store    store.Store
	sink     Sink
	interval time.Duration
	clock    clock.Clock
	logger   *log.Logger

	status    SyncStatus
	resultCh  chan ReloadResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	done      gosync.WaitGroup
	mu        gosync.Mutex
	running   bool
}

// New creates a new Poller.
func New(lister Lister, s store.Store, sink Sink, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 60 * time.Second
	}
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Poller{
		lister:    lister,
		store:     s,
		sink:      sink,
		interval:  opts.Interval,
		clock:     opts.Clock,
		logger:    opts.Logger.With("component", "poller"),
		resultCh:  make(chan ReloadResultMsg, 16),
		triggerCh: make(chan struct{}, 1),
	}
}

// LoadCached hands the list cached by a previous run to the sink so the
// UI has something to show before the first reload finishes.
func (p *Poller) LoadCached(ctx context.Context) (int, error) {
	trains, err := p.store.GetTrains(ctx)
	if err != nil {
		return 0, err
	}
	if len(trains) > 0 {
		p.sink.SetTrains(trains)
	}
	return len(trains), nil
}

// Start returns a tea.Cmd that starts the polling goroutine and
// subscribes to results.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	stop := make(chan struct{})
	p.stopCh = stop
	p.mu.Unlock()

	p.done.Add(1)
	go p.poll(stop)

	return p.waitForResult(stop)
}

// Stop halts the polling goroutine and waits for it to exit. The poller
// can be started again afterwards.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.running = false
	p.mu.Unlock()

	p.done.Wait()
}

// Refresh triggers an immediate reload.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// A reload is already queued.
	}
	return nil
}

// Status returns the state of the most recent reload.
func (p *Poller) Status() SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Running reports whether the reload loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// poll runs the reload loop until stop is closed.
func (p *Poller) poll(stop <-chan struct{}) {
	defer p.done.Done()

	// Do an initial fetch immediately
	p.reload()

	timer := p.clock.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-stop:
			return
		case <-timer.Chan():
			p.reload()
			timer.Reset(p.interval)
		case <-p.triggerCh:
			p.reload()
		}
	}
}

// reload performs a single fetch, caches the result and sends a
// ReloadResultMsg on the result channel.
func (p *Poller) reload() {
	p.setStatus(SyncRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
	defer cancel()

	trains, err := p.lister.List(ctx)
	if err != nil {
		p.setStatus(SyncError, err)
		p.logger.Warn("reload failed", "err", err)
		p.sendResult(ReloadResultMsg{Error: err, AuthError: api.IsAuthError(err)})
		return
	}

	p.sink.SetTrains(trains)

	if err := p.store.ReplaceTrains(ctx, trains); err != nil {
		// The list is live in the UI; only the offline cache is stale.
		p.logger.Error("caching trains", "err", err)
	}

	p.setStatus(SyncIdle, nil)
	p.logger.Debug("reloaded trains", "count", len(trains))
	p.sendResult(ReloadResultMsg{Count: len(trains)})
}

func (p *Poller) setStatus(state SyncState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == SyncIdle && err == nil {
		p.status.LastSync = p.clock.Now()
	}
}

// sendResult sends a ReloadResultMsg on the result channel without blocking.
func (p *Poller) sendResult(msg ReloadResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel. It returns nil once the loop is stopped.
func (p *Poller) waitForResult(stop <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case result := <-p.resultCh:
			return result
		case <-stop:
			return nil
		}
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next reload result.
// Call it after handling a ReloadResultMsg to keep listening.
func (p *Poller) WaitForNextResult() tea.Cmd {
	p.mu.Lock()
	stop := p.stopCh
	p.mu.Unlock()
	return p.waitForResult(stop)
}
