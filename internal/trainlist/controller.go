// Package trainlist keeps the displayed train list consistent with the
// operator's search and sort choices and with the outcome of create and
// update calls against the backend.
package trainlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/juju/clock"

	"github.com/nhle/trainadmin/internal/model"
)

// DefaultDebounce is the quiet period before a search query is sent.
const DefaultDebounce = 300 * time.Millisecond

// SearchErrorMessage is the inline message shown when a search fails.
const SearchErrorMessage = "Failed to search trains"

const (
	createdMessage = "Train created successfully"
	updatedMessage = "Train updated successfully"
)

// ErrClosed is returned by mutations after Close.
var ErrClosed = errors.New("train list closed")

// TrainService is the remote side of the list.
type TrainService interface {
	Search(ctx context.Context, query string) ([]model.Train, error)
	Create(ctx context.Context, draft model.CreateTrainDto) (model.Train, error)
	Update(ctx context.Context, id string, patch model.UpdateTrainDto) (model.Train, error)
}

// Notifier receives the success notifications of create and update.
type Notifier interface {
	Notify(n model.Notification)
}

// ViewState is a point-in-time copy of the controller state.
type ViewState struct {
	Authoritative []model.Train
	Query         string
	SortColumn    model.SortColumn
	SortDirection model.SortDirection
	View          []model.Train
	SearchError   string
	Searching     bool
}

// Options configures a Controller. Zero values select the defaults.
type Options struct {
	Clock    clock.Clock
	Debounce time.Duration
	Logger   *log.Logger
	Notifier Notifier
}

// Controller owns the authoritative train list and the derived view.
// It is safe for concurrent use.
type Controller struct {
	svc      TrainService
	clock    clock.Clock
	debounce time.Duration
	logger   *log.Logger
	notifier Notifier

	mu            sync.Mutex
	authoritative []model.Train
	query         string
	column        model.SortColumn
	direction     model.SortDirection
	view          []model.Train
	searchErr     string
	searching     bool

	// gen increments on every query change. A timer or search response
	// only applies while its generation is current.
	gen          uint64
	timer        clock.Timer
	cancelSearch context.CancelFunc
	inflight     sync.WaitGroup

	closed  bool
	changes chan struct{}
}

// New creates a controller over svc with an empty authoritative list.
func New(svc TrainService, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.WallClock
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Controller{
		svc:       svc,
		clock:     opts.Clock,
		debounce:  opts.Debounce,
		logger:    opts.Logger.With("component", "trainlist"),
		notifier:  opts.Notifier,
		direction: model.SortAsc,
		changes:   make(chan struct{}, 1),
	}
}

// Changes returns a channel that receives a value after the state changed.
// Bursts of changes coalesce into one value. The channel is closed by Close.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()

	return ViewState{
		Authoritative: clone(c.authoritative),
		Query:         c.query,
		SortColumn:    c.column,
		SortDirection: c.direction,
		View:          clone(c.view),
		SearchError:   c.searchErr,
		Searching:     c.searching,
	}
}

// SetTrains replaces the authoritative list after a reload. With no active
// query the view follows it.
func (c *Controller) SetTrains(trains []model.Train) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.authoritative = clone(trains)
	if c.query == "" {
		c.resetViewLocked()
	}
	c.signalLocked()
}

// SetSearchQuery records text as the active query. An empty text restores
// the authoritative list at once; any other text is searched remotely once
// the debounce period passes without another call.
func (c *Controller) SetSearchQuery(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.query = text
	c.gen++
	c.stopPendingLocked()

	if text == "" {
		c.searching = false
		c.searchErr = ""
		c.resetViewLocked()
		c.signalLocked()
		return
	}

	gen := c.gen
	c.timer = c.clock.AfterFunc(c.debounce, func() { c.runSearch(gen) })
	c.signalLocked()
}

// SetSort updates the sort column and direction. A zero column or
// direction keeps the current one. The view is re-sorted in place.
func (c *Controller) SetSort(col model.SortColumn, dir model.SortDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if col != model.SortNone {
		c.column = col
	}
	if dir != "" {
		c.direction = dir
	}
	sortTrains(c.view, c.column, c.direction)
	c.signalLocked()
}

// SetSortLabel is SetSort keyed by a picker label such as "Departure".
// Unknown labels leave the column unchanged.
func (c *Controller) SetSortLabel(label string, dir model.SortDirection) {
	col, _ := model.ColumnForLabel(label)
	c.SetSort(col, dir)
}

// CreateTrain creates a train remotely and adds it to the list.
func (c *Controller) CreateTrain(ctx context.Context, draft model.CreateTrainDto) (model.Train, error) {
	if err := draft.Validate(); err != nil {
		return model.Train{}, err
	}
	if c.isClosed() {
		return model.Train{}, ErrClosed
	}

	created, err := c.svc.Create(ctx, draft)
	if err != nil {
		c.logger.Warn("create failed", "name", draft.Name, "err", err)
		return model.Train{}, err
	}

	c.mu.Lock()
	c.authoritative = append(c.authoritative, created)
	if c.query == "" {
		c.resetViewLocked()
	} else if matchesAny(c.query, created.Name, created.Origin, created.Destination) {
		c.view = append(c.view, created)
	}
	c.signalLocked()
	c.mu.Unlock()

	c.logger.Info("train created", "id", created.ID, "name", created.Name)
	c.notify(created.ID, createdMessage)
	return created, nil
}

// UpdateTrain patches the train with the given id remotely and merges the
// response into the list.
func (c *Controller) UpdateTrain(ctx context.Context, id string, patch model.UpdateTrainDto) (model.Train, error) {
	if id == "" {
		return model.Train{}, fmt.Errorf("updating train: empty id")
	}
	if err := patch.Validate(); err != nil {
		return model.Train{}, err
	}
	if c.isClosed() {
		return model.Train{}, ErrClosed
	}

	updated, err := c.svc.Update(ctx, id, patch)
	if err != nil {
		c.logger.Warn("update failed", "id", id, "err", err)
		return model.Train{}, err
	}

	c.mu.Lock()
	merged := model.Train{ID: id}.Merge(updated)
	if i := indexOf(c.authoritative, id); i >= 0 {
		merged = c.authoritative[i].Merge(updated)
		c.authoritative[i] = merged
	}

	if c.query == "" {
		c.resetViewLocked()
	} else if j := indexOf(c.view, id); j >= 0 {
		entry := c.view[j].Merge(updated)
		if matchesAny(c.query, entry.Name, entry.Number) {
			c.view[j] = entry
		} else {
			c.view = append(c.view[:j], c.view[j+1:]...)
		}
	}
	c.signalLocked()
	c.mu.Unlock()

	c.logger.Info("train updated", "id", id)
	c.notify(id, updatedMessage)
	return merged, nil
}

// Close stops the pending debounce timer, cancels any in-flight search and
// waits for it to return. The controller ignores all calls afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.gen++
	c.stopPendingLocked()
	close(c.changes)
	c.mu.Unlock()

	c.inflight.Wait()
}

// runSearch is the debounce timer callback for generation gen.
func (c *Controller) runSearch(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelSearch = cancel
	c.searching = true
	query := c.query
	c.inflight.Add(1)
	c.signalLocked()
	c.mu.Unlock()

	defer c.inflight.Done()
	defer cancel()

	results, err := c.svc.Search(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.gen {
		c.logger.Debug("dropping stale search result", "query", query)
		return
	}
	c.cancelSearch = nil
	c.searching = false
	if err != nil {
		c.logger.Warn("search failed", "query", query, "err", err)
		c.view = nil
		c.searchErr = SearchErrorMessage
	} else {
		c.view = clone(results)
		sortTrains(c.view, c.column, c.direction)
		c.searchErr = ""
	}
	c.signalLocked()
}

// stopPendingLocked disarms the debounce timer and cancels the in-flight
// search, if any.
func (c *Controller) stopPendingLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelSearch != nil {
		c.cancelSearch()
		c.cancelSearch = nil
	}
}

func (c *Controller) resetViewLocked() {
	c.view = clone(c.authoritative)
	sortTrains(c.view, c.column, c.direction)
}

func (c *Controller) signalLocked() {
	if c.closed {
		return
	}
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Controller) notify(trainID, message string) {
	if c.notifier == nil {
		return
	}
	c.notifier.Notify(model.Notification{
		TrainID:   trainID,
		Level:     model.LevelSuccess,
		Message:   message,
		CreatedAt: c.clock.Now(),
	})
}

// matchesAny reports whether query is a case-insensitive substring of any
// of fields.
func matchesAny(query string, fields ...string) bool {
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func indexOf(trains []model.Train, id string) int {
	for i, t := range trains {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func clone(trains []model.Train) []model.Train {
	if trains == nil {
		return nil
	}
	out := make([]model.Train, len(trains))
	copy(out, trains)
	return out
}
