// ABOUTME: Chat listing and creation endpoints of the parlor service
// ABOUTME: Covers GET /chats and POST /chats

package api

import (
	"context"
	"net/http"
)

// Chat is one conversation the authenticated user participates in.
// The service returns chats in creation order.
type Chat struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// createChatRequest is the JSON body sent to POST /chats.
type createChatRequest struct {
	Title    string  `json:"title"`
	UsersIDs []int64 `json:"users_ids"`
}

// createChatResponse is the JSON response from POST /chats.
type createChatResponse struct {
	ChatID int64 `json:"chat_id"`
}

// Chats fetches all chats for the authenticated user, oldest first.
func (c *Client) Chats(ctx context.Context) ([]Chat, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/chats", nil)
	if err != nil {
		return nil, err
	}

	var chats []Chat
	if err := c.doJSON(req, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// CreateChat creates a chat with the given title and members and returns the
// id assigned by the service. The authenticated user is added implicitly.
func (c *Client) CreateChat(ctx context.Context, title string, usersIDs []int64) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/chats", createChatRequest{
		Title:    title,
		UsersIDs: usersIDs,
	})
	if err != nil {
		return 0, err
	}

	var resp createChatResponse
	if err := c.doJSON(req, &resp); err != nil {
		return 0, err
	}
	return resp.ChatID, nil
}
