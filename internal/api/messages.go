// ABOUTME: Message history and send endpoints of the parlor service
// ABOUTME: Covers GET /chats/{id} with cursor pagination and POST /chats/{id}

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Message is a single chat message. IDs are assigned by the service and are
// globally unique and monotonically increasing, so id order is chronological
// order. A nil SenderID means the sender's account was deleted.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    int64     `json:"chat_id"`
	SenderID  *int64    `json:"sender_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagePage is one page of history. Messages are in ascending id order;
// HasMore reports whether older messages exist beyond the first entry.
type MessagePage struct {
	HasMore  bool      `json:"has_more"`
	Messages []Message `json:"messages"`
}

// sendMessageRequest is the JSON body sent to POST /chats/{id}.
type sendMessageRequest struct {
	Content string `json:"content"`
}

// sendMessageResponse is the JSON response from POST /chats/{id}.
type sendMessageResponse struct {
	MessageID int64 `json:"message_id"`
}

// Messages fetches up to limit messages of chatID older than lastMessageID.
// Pass lastMessageID 0 to fetch the newest page. The service responds
// newest-first; the page is reversed here so callers always see ascending
// id order.
func (c *Client) Messages(ctx context.Context, chatID int64, limit int, lastMessageID int64) (*MessagePage, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if lastMessageID > 0 {
		params.Set("last_message_id", strconv.FormatInt(lastMessageID, 10))
	}

	path := fmt.Sprintf("/chats/%d?%s", chatID, params.Encode())
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var page MessagePage
	if err := c.doJSON(req, &page); err != nil {
		return nil, err
	}

	reverse(page.Messages)
	return &page, nil
}

// SendMessage posts content to chatID and returns the id the service
// assigned to the stored message.
func (c *Client) SendMessage(ctx context.Context, chatID int64, content string) (int64, error) {
	path := fmt.Sprintf("/chats/%d", chatID)
	req, err := c.newRequest(ctx, http.MethodPost, path, sendMessageRequest{Content: content})
	if err != nil {
		return 0, err
	}

	var resp sendMessageResponse
	if err := c.doJSON(req, &resp); err != nil {
		return 0, err
	}
	return resp.MessageID, nil
}

// reverse flips a newest-first page into chronological order in place.
func reverse(msgs []Message) {
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
}
