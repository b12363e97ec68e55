// ABOUTME: User lookup and search endpoints of the parlor service
// ABOUTME: Covers GET /users/{id} and GET /search/users

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// User is the public profile of a service account.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// User fetches the public profile for id.
func (c *Client) User(ctx context.Context, id int64) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := c.doJSON(req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers returns accounts whose username matches the given prefix.
func (c *Client) SearchUsers(ctx context.Context, username string) ([]User, error) {
	params := url.Values{}
	params.Set("username", username)

	req, err := c.newRequest(ctx, http.MethodGet, "/search/users?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := c.doJSON(req, &users); err != nil {
		return nil, err
	}
	return users, nil
}
