// ABOUTME: Push channel endpoint of the parlor service
// ABOUTME: Opens the long-lived GET /events server-sent-event stream

package api

import (
	"context"
	"io"
	"net/http"
)

// Events opens the long-lived push channel and returns its body for
// streaming. The caller owns the ReadCloser; closing it (or cancelling ctx)
// tears the connection down. Decoding is done by the events package.
func (c *Client) Events(ctx context.Context) (io.ReadCloser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/events", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Status: resp.StatusCode, Body: string(body)}
	}

	return resp.Body, nil
}
