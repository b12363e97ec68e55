// ABOUTME: Long-lived push channel routing server events into the stores
// ABOUTME: Decodes named SSE events Message and Chat from GET /events

package events

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/parlorchat/parlor/internal/api"
)

// Named events emitted by the service on the push channel.
const (
	eventMessage = "Message"
	eventChat    = "Chat"
)

// NewMessageEvent is the payload of a Message push event. Delivered for
// every chat the user participates in, whichever chat is selected.
type NewMessageEvent struct {
	ChatID  int64       `json:"chat_id"`
	Message api.Message `json:"message"`
	UserID  int64       `json:"user_id"`
}

// NewChatEvent is the payload of a Chat push event, announcing a chat
// created by another participant.
type NewChatEvent struct {
	ChatID   int64   `json:"chat_id"`
	Title    string  `json:"title"`
	UsersIDs []int64 `json:"users_ids"`
}

// MessageSink receives pushed messages. The sink filters by the current
// selection; the channel forwards everything.
type MessageSink interface {
	AppendNew(chatID int64, msg api.Message) bool
}

// ChatSink receives pushed chat creations.
type ChatSink interface {
	Append(chat api.Chat)
}

// Opener opens the push connection.
type Opener interface {
	Events(ctx context.Context) (io.ReadCloser, error)
}

// Channel is the single long-lived push connection. It is opened once when
// the chat surface becomes active and closed when it goes away; it is not
// reopened per selected chat, and a dropped connection is not re-dialed.
type Channel struct {
	opener   Opener
	messages MessageSink
	chats    ChatSink
	logger   *slog.Logger

	mu   sync.Mutex
	body io.ReadCloser
	done chan struct{}
}

// NewChannel creates an unopened channel. Pass nil logger for default.
func NewChannel(opener Opener, messages MessageSink, chats ChatSink, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		opener:   opener,
		messages: messages,
		chats:    chats,
		logger:   logger.With("component", "events"),
	}
}

// Open dials the push connection and starts routing events in the
// background. Returns an error only when the connection cannot be
// established; once open, a later drop just ends the stream (see Done).
func (c *Channel) Open(ctx context.Context) error {
	body, err := c.opener.Events(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.body = body
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		defer body.Close()
		c.readLoop(ctx, body)
	}()

	return nil
}

// Done returns a channel closed when the read loop exits, whether by Close,
// context cancellation, or the server dropping the connection. Nil before
// Open.
func (c *Channel) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// Close tears down the push connection. Safe to call multiple times.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.body != nil {
		c.body.Close()
		c.body = nil
	}
}

// readLoop scans the SSE stream. Events accumulate event/data lines and are
// dispatched on the blank line that ends each one.
func (c *Channel) readLoop(ctx context.Context, body io.Reader) {
	scanner := bufio.NewScanner(body)

	var eventType string
	var dataLines []string

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := scanner.Text()

		if line == "" {
			if eventType != "" && len(dataLines) > 0 {
				c.dispatch(eventType, strings.Join(dataLines, "\n"))
			}
			eventType = ""
			dataLines = nil
			continue
		}

		if strings.HasPrefix(line, "event:") {
			eventType = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
			continue
		}

		if strings.HasPrefix(line, "data:") {
			dataLines = append(dataLines, strings.TrimSpace(strings.TrimPrefix(line, "data:")))
			continue
		}
	}

	if err := scanner.Err(); err != nil {
		c.logger.Warn("push channel dropped", "error", err)
	}
}

// dispatch routes one decoded event into the matching store.
func (c *Channel) dispatch(eventType, data string) {
	switch eventType {
	case eventMessage:
		var ev NewMessageEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			c.logger.Warn("ignoring malformed Message event", "error", err)
			return
		}
		c.messages.AppendNew(ev.ChatID, ev.Message)

	case eventChat:
		var ev NewChatEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			c.logger.Warn("ignoring malformed Chat event", "error", err)
			return
		}
		c.chats.Append(api.Chat{ID: ev.ChatID, Title: ev.Title})

	default:
		c.logger.Debug("ignoring unknown push event", "event", eventType)
	}
}
