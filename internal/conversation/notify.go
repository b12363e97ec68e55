// ABOUTME: In-memory fan-out of store changes to view-layer subscribers
// ABOUTME: Explicit subscribe/unsubscribe pairs so observers never leak

package conversation

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize is the channel buffer for each subscriber.
const subscriberBufferSize = 64

// ChangeKind identifies which mutation a store applied.
type ChangeKind string

const (
	// ChangeReset means the view was cleared for a new selection.
	ChangeReset ChangeKind = "reset"
	// ChangeInitial means the first page replaced the empty view.
	ChangeInitial ChangeKind = "initial"
	// ChangePrepend means older messages were added at the head.
	ChangePrepend ChangeKind = "prepend"
	// ChangeAppend means a message was added at the tail.
	ChangeAppend ChangeKind = "append"
	// ChangeChatsLoaded means the chat list was bulk-populated.
	ChangeChatsLoaded ChangeKind = "chats_loaded"
	// ChangeChatAdded means one chat was appended to the list.
	ChangeChatAdded ChangeKind = "chat_added"
)

// Change describes a single store mutation. Added carries the number of
// entries the mutation introduced so the view layer can re-anchor scrolling.
type Change struct {
	Kind   ChangeKind
	ChatID int64
	Added  int
}

// notifier fans out Changes to all registered subscribers. Sends never
// block; a subscriber whose buffer is full misses the change.
type notifier struct {
	mu     sync.RWMutex
	subs   map[string]chan Change
	logger *slog.Logger
}

func newNotifier(logger *slog.Logger) *notifier {
	return &notifier{
		subs:   make(map[string]chan Change),
		logger: logger,
	}
}

// subscribe registers a subscriber and returns its channel and id. The
// subscription is removed automatically when ctx is cancelled.
func (n *notifier) subscribe(ctx context.Context) (<-chan Change, string) {
	id := uuid.New().String()
	ch := make(chan Change, subscriberBufferSize)

	n.mu.Lock()
	n.subs[id] = ch
	n.mu.Unlock()

	go func() {
		<-ctx.Done()
		n.unsubscribe(id)
	}()

	return ch, id
}

// unsubscribe removes a subscription and closes its channel.
func (n *notifier) unsubscribe(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch, ok := n.subs[id]
	if !ok {
		return
	}
	delete(n.subs, id)
	close(ch)
}

// publish delivers a change to every subscriber without blocking.
func (n *notifier) publish(change Change) {
	n.mu.RLock()
	targets := make([]chan Change, 0, len(n.subs))
	for _, ch := range n.subs {
		targets = append(targets, ch)
	}
	n.mu.RUnlock()

	for _, ch := range targets {
		select {
		case ch <- change:
		default:
			n.logger.Debug("dropped change for slow subscriber",
				"kind", change.Kind,
				"chat_id", change.ChatID)
		}
	}
}

// close shuts down the notifier and closes all subscriber channels.
func (n *notifier) close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for id, ch := range n.subs {
		close(ch)
		delete(n.subs, id)
	}
}
