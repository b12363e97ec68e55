// ABOUTME: Live-updated list of the user's chats in creation order
// ABOUTME: Grows by bulk load, optimistic create, or push-channel events

package conversation

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/parlorchat/parlor/internal/api"
)

// ChatList holds every chat the user participates in. Entries are kept in
// creation order and are never mutated or removed; Display reverses the
// order for presentation without disturbing the stored one.
type ChatList struct {
	mu       sync.RWMutex
	chats    []api.Chat
	notifier *notifier
	logger   *slog.Logger
}

// NewChatList creates an empty chat list. Pass nil logger for default.
func NewChatList(logger *slog.Logger) *ChatList {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "chatlist")
	return &ChatList{
		notifier: newNotifier(logger),
		logger:   logger,
	}
}

// Load bulk-populates the list from the initial GET /chats response,
// preserving the service's creation order.
func (l *ChatList) Load(chats []api.Chat) {
	l.mu.Lock()
	l.chats = slices.Clone(chats)
	count := len(l.chats)
	l.mu.Unlock()

	l.notifier.publish(Change{Kind: ChangeChatsLoaded, Added: count})
}

// Create appends a chat the user just created, ahead of any push event the
// service might emit for it.
func (l *ChatList) Create(chat api.Chat) {
	l.append(chat)
}

// Append adds a chat announced by the push channel.
func (l *ChatList) Append(chat api.Chat) {
	l.append(chat)
}

func (l *ChatList) append(chat api.Chat) {
	l.mu.Lock()
	l.chats = append(l.chats, chat)
	l.mu.Unlock()

	l.notifier.publish(Change{Kind: ChangeChatAdded, ChatID: chat.ID, Added: 1})
}

// Chats returns a copy of the list in stored (creation) order.
func (l *ChatList) Chats() []api.Chat {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.chats)
}

// Display returns a copy of the list most-recent-first for presentation.
func (l *ChatList) Display() []api.Chat {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]api.Chat, len(l.chats))
	for i, chat := range l.chats {
		out[len(out)-1-i] = chat
	}
	return out
}

// Title returns the title of the chat with the given id.
func (l *ChatList) Title(id int64) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, chat := range l.chats {
		if chat.ID == id {
			return chat.Title, true
		}
	}
	return "", false
}

// Subscribe registers an observer for list changes.
func (l *ChatList) Subscribe(ctx context.Context) (<-chan Change, string) {
	return l.notifier.subscribe(ctx)
}

// Unsubscribe removes a subscription and closes its channel.
func (l *ChatList) Unsubscribe(id string) {
	l.notifier.unsubscribe(id)
}

// Close shuts down the list's change fan-out.
func (l *ChatList) Close() {
	l.notifier.close()
}
