// ABOUTME: Drives initial and backward history fetches for the selected chat
// ABOUTME: One outstanding fetch at a time, stale completions discarded

package pagination

import (
	"context"
	"log/slog"
	"sync"

	"github.com/parlorchat/parlor/internal/api"
	"github.com/parlorchat/parlor/internal/conversation"
)

// State is the controller's position in its lifecycle for the selected
// chat. Transitions are invoked directly by triggers and completions, never
// inferred.
type State string

const (
	// StateIdle means no chat is selected.
	StateIdle State = "idle"
	// StateLoading means the initial page fetch is outstanding.
	StateLoading State = "loading"
	// StateLoaded means the view is populated and no fetch is outstanding.
	StateLoaded State = "loaded"
	// StatePaginating means a backward page fetch is outstanding.
	StatePaginating State = "paginating"
)

// Fetcher is what the controller needs from the chat service.
type Fetcher interface {
	Messages(ctx context.Context, chatID int64, limit int, lastMessageID int64) (*api.MessagePage, error)
}

// Controller coordinates history fetches against a conversation view.
//
// Exactly one fetch may be outstanding at a time; a trigger arriving while
// one is in flight is dropped. Each fetch captures the chat id and selection
// epoch at issue time, and its completion is discarded when either no longer
// matches the live selection. A completion that never arrives leaves the
// controller in its loading state; there is no timeout.
type Controller struct {
	mu    sync.Mutex
	state State
	epoch uint64

	view         *conversation.View
	fetcher      Fetcher
	initialLimit int
	olderLimit   int
	logger       *slog.Logger
}

// New creates a Controller in StateIdle. initialLimit sizes the first page
// of a selection, olderLimit sizes backward pages. Pass nil logger for
// default.
func New(view *conversation.View, fetcher Fetcher, initialLimit, olderLimit int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		state:        StateIdle,
		view:         view,
		fetcher:      fetcher,
		initialLimit: initialLimit,
		olderLimit:   olderLimit,
		logger:       logger.With("component", "pagination"),
	}
}

// State returns the controller's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Select switches to chatID: the view is reset immediately, invalidating
// any in-flight fetch for the previous selection, and the initial page
// fetch starts in the background. Selecting the already-selected chat is a
// no-op.
func (c *Controller) Select(ctx context.Context, chatID int64) {
	if c.view.Selected() == chatID {
		return
	}
	epoch := c.view.Reset(chatID)

	c.mu.Lock()
	c.state = StateLoading
	c.epoch = epoch
	c.mu.Unlock()

	go c.fetchInitial(ctx, chatID, epoch)
}

// SentinelVisible is invoked when the marker above the oldest loaded
// message enters the viewport. It starts a backward fetch using the current
// cursor, unless the view has no older history or a fetch is already
// outstanding.
func (c *Controller) SentinelVisible(ctx context.Context) {
	c.mu.Lock()
	if c.state != StateLoaded || !c.view.HasMore() {
		c.mu.Unlock()
		return
	}
	cursor, ok := c.view.Cursor()
	if !ok {
		c.mu.Unlock()
		return
	}
	chatID := c.view.Selected()
	epoch := c.epoch
	c.state = StatePaginating
	c.mu.Unlock()

	go c.fetchOlder(ctx, chatID, epoch, cursor)
}

func (c *Controller) fetchInitial(ctx context.Context, chatID int64, epoch uint64) {
	page, err := c.fetcher.Messages(ctx, chatID, c.initialLimit, 0)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		// Selection moved on while the request was in flight.
		c.logger.Debug("discarded stale initial fetch", "chat_id", chatID)
		return
	}

	if err != nil {
		c.logger.Warn("initial page fetch failed", "chat_id", chatID, "error", err)
		c.state = StateLoaded
		return
	}

	c.view.LoadInitial(chatID, epoch, page)
	c.state = StateLoaded
}

func (c *Controller) fetchOlder(ctx context.Context, chatID int64, epoch uint64, cursor int64) {
	page, err := c.fetcher.Messages(ctx, chatID, c.olderLimit, cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		c.logger.Debug("discarded stale older fetch", "chat_id", chatID, "cursor", cursor)
		return
	}

	if err != nil {
		// hasMore stays as it was; the next sentinel sighting may retrigger.
		c.logger.Warn("older page fetch failed", "chat_id", chatID, "cursor", cursor, "error", err)
		c.state = StateLoaded
		return
	}

	c.view.PrependOlder(chatID, epoch, page)
	c.state = StateLoaded
}
