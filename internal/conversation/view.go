// ABOUTME: Ordered, de-duplicated message view for the selected conversation
// ABOUTME: Every merge is validated against the live selection before applying

package conversation

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/parlorchat/parlor/internal/api"
)

// View holds the loaded messages of the currently selected chat. It is
// mutated from independent completion paths (pagination, send, push events)
// and guarantees that the exposed list is always strictly ascending by
// message id with no duplicates.
//
// Each selection gets an epoch. Merges carry the epoch captured when their
// request was issued; a merge whose epoch no longer matches is refused.
// That staleness check is the only cancellation mechanism - there are no
// cancellation tokens.
type View struct {
	mu       sync.RWMutex
	chatID   int64
	epoch    uint64
	messages []api.Message
	hasMore  bool
	notifier *notifier
	logger   *slog.Logger
}

// NewView creates an empty view with no chat selected. Pass nil logger for
// default.
func NewView(logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "view")
	return &View{
		notifier: newNotifier(logger),
		logger:   logger,
	}
}

// Reset clears the view for a newly selected chat and returns the new
// selection epoch. Any in-flight merge captured under a previous epoch is
// invalidated by this call.
func (v *View) Reset(chatID int64) uint64 {
	v.mu.Lock()
	v.chatID = chatID
	v.epoch++
	epoch := v.epoch
	v.messages = nil
	v.hasMore = false
	v.mu.Unlock()

	v.notifier.publish(Change{Kind: ChangeReset, ChatID: chatID})
	return epoch
}

// Selection returns the currently selected chat id and epoch.
func (v *View) Selection() (int64, uint64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.chatID, v.epoch
}

// Selected returns the currently selected chat id, 0 when none.
func (v *View) Selected() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.chatID
}

// HasMore reports whether older messages exist server-side beyond the
// earliest loaded one.
func (v *View) HasMore() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.hasMore
}

// Cursor returns the id of the oldest loaded message. ok is false when the
// view is empty.
func (v *View) Cursor() (int64, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if len(v.messages) == 0 {
		return 0, false
	}
	return v.messages[0].ID, true
}

// Messages returns a copy of the loaded message list in ascending id order.
func (v *View) Messages() []api.Message {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return slices.Clone(v.messages)
}

// Len returns the number of loaded messages.
func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.messages)
}

// LoadInitial installs the first page for chatID. The merge is refused when
// the selection or epoch moved on since the request was issued. Reports
// whether the page was applied.
func (v *View) LoadInitial(chatID int64, epoch uint64, page *api.MessagePage) bool {
	v.mu.Lock()
	if v.chatID != chatID || v.epoch != epoch {
		v.mu.Unlock()
		v.logger.Debug("discarded stale initial page", "chat_id", chatID)
		return false
	}
	v.messages = slices.Clone(page.Messages)
	v.hasMore = page.HasMore
	added := len(page.Messages)
	v.mu.Unlock()

	v.notifier.publish(Change{Kind: ChangeInitial, ChatID: chatID, Added: added})
	return true
}

// PrependOlder merges an older page at the head of the view. The merge is
// refused when the selection or epoch moved on. Reports whether the page
// was applied.
func (v *View) PrependOlder(chatID int64, epoch uint64, page *api.MessagePage) bool {
	v.mu.Lock()
	if v.chatID != chatID || v.epoch != epoch {
		v.mu.Unlock()
		v.logger.Debug("discarded stale older page", "chat_id", chatID)
		return false
	}

	// Drop anything at or past the current head so the ascending invariant
	// survives a page that overlaps the loaded range.
	older := slices.Clone(page.Messages)
	if len(v.messages) > 0 {
		head := v.messages[0].ID
		for len(older) > 0 && older[len(older)-1].ID >= head {
			older = older[:len(older)-1]
		}
	}

	v.messages = append(older, v.messages...)
	v.hasMore = page.HasMore
	added := len(older)
	v.mu.Unlock()

	v.notifier.publish(Change{Kind: ChangePrepend, ChatID: chatID, Added: added})
	return true
}

// AppendNew merges a message delivered by the push channel. Events arrive
// for every chat the user participates in; the view itself filters by the
// current selection. Duplicate ids are ignored, which makes the merge
// idempotent with AppendSent. Reports whether the message was applied.
func (v *View) AppendNew(chatID int64, msg api.Message) bool {
	v.mu.Lock()
	if v.chatID != chatID {
		v.mu.Unlock()
		return false
	}
	if !v.insertLocked(msg) {
		v.mu.Unlock()
		return false
	}
	v.mu.Unlock()

	v.notifier.publish(Change{Kind: ChangeAppend, ChatID: chatID, Added: 1})
	return true
}

// AppendSent merges a message just accepted by the service for the selected
// chat, using the server-returned id. Idempotent against a push event
// carrying the same id.
func (v *View) AppendSent(msg api.Message) {
	v.mu.Lock()
	chatID := v.chatID
	if !v.insertLocked(msg) {
		v.mu.Unlock()
		return
	}
	v.mu.Unlock()

	v.notifier.publish(Change{Kind: ChangeAppend, ChatID: chatID, Added: 1})
}

// insertLocked places msg at its id-sorted position, refusing duplicates.
// Must be called with mu held. Almost every insert lands at the tail; the
// binary search only matters when completions arrive out of order.
func (v *View) insertLocked(msg api.Message) bool {
	if n := len(v.messages); n == 0 || v.messages[n-1].ID < msg.ID {
		v.messages = append(v.messages, msg)
		return true
	}
	i, found := slices.BinarySearchFunc(v.messages, msg, func(a, b api.Message) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	if found {
		return false
	}
	v.messages = slices.Insert(v.messages, i, msg)
	return true
}

// Subscribe registers a view-layer observer for store changes. The
// subscription is removed when ctx is cancelled or Unsubscribe is called
// with the returned id.
func (v *View) Subscribe(ctx context.Context) (<-chan Change, string) {
	return v.notifier.subscribe(ctx)
}

// Unsubscribe removes a subscription and closes its channel.
func (v *View) Unsubscribe(id string) {
	v.notifier.unsubscribe(id)
}

// Close shuts down the view's change fan-out.
func (v *View) Close() {
	v.notifier.close()
}
