// ABOUTME: Tests for the parlor service HTTP client
// ABOUTME: Covers request shapes, page reversal, cookies, and error mapping

package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_ChatsSendsSessionCookie(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/chats", r.URL.Path)
		if c, err := r.Cookie("session"); err == nil {
			gotCookie = c.Value
		}
		fmt.Fprint(w, `[{"id":1,"title":"general"},{"id":2,"title":"random"}]`)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token", testLogger())
	chats, err := c.Chats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "secret-token", gotCookie)
	require.Len(t, chats, 2)
	assert.Equal(t, int64(1), chats[0].ID)
	assert.Equal(t, "general", chats[0].Title)
}

func TestClient_CreateChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chats", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body createChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "weekend", body.Title)
		assert.Equal(t, []int64{3, 5}, body.UsersIDs)

		fmt.Fprint(w, `{"chat_id":7}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	chatID, err := c.CreateChat(context.Background(), "weekend", []int64{3, 5})

	require.NoError(t, err)
	assert.Equal(t, int64(7), chatID)
}

func TestClient_MessagesReversesToChronological(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chats/42", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Empty(t, r.URL.Query().Get("last_message_id"))

		// The service responds newest-first.
		fmt.Fprint(w, `{"has_more":true,"messages":[
			{"id":12,"chat_id":42,"sender_id":1,"content":"c","created_at":"2026-08-30T12:02:00Z"},
			{"id":11,"chat_id":42,"sender_id":null,"content":"b","created_at":"2026-08-30T12:01:00Z"},
			{"id":10,"chat_id":42,"sender_id":2,"content":"a","created_at":"2026-08-30T12:00:00Z"}
		]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	page, err := c.Messages(context.Background(), 42, 10, 0)

	require.NoError(t, err)
	assert.True(t, page.HasMore)
	require.Len(t, page.Messages, 3)
	assert.Equal(t, int64(10), page.Messages[0].ID)
	assert.Equal(t, int64(12), page.Messages[2].ID)
	assert.Nil(t, page.Messages[1].SenderID, "null sender_id means deleted account")
	require.NotNil(t, page.Messages[0].SenderID)
	assert.Equal(t, int64(2), *page.Messages[0].SenderID)
}

func TestClient_MessagesSendsCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "10", r.URL.Query().Get("last_message_id"))
		fmt.Fprint(w, `{"has_more":false,"messages":[]}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	page, err := c.Messages(context.Background(), 42, 5, 10)

	require.NoError(t, err)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.Messages)
}

func TestClient_SendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/chats/42", r.URL.Path)

		var body sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body.Content)

		fmt.Fprint(w, `{"message_id":20}`)
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	messageID, err := c.SendMessage(context.Background(), 42, "hello")

	require.NoError(t, err)
	assert.Equal(t, int64(20), messageID)
}

func TestClient_UserAndSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/3":
			fmt.Fprint(w, `{"id":3,"username":"ada","created_at":"2026-01-01T00:00:00Z"}`)
		case "/search/users":
			assert.Equal(t, "ad", r.URL.Query().Get("username"))
			fmt.Fprint(w, `[{"id":3,"username":"ada","created_at":"2026-01-01T00:00:00Z"}]`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())

	user, err := c.User(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	found, err := c.SearchUsers(context.Background(), "ad")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, int64(3), found[0].ID)
}

func TestClient_NonSuccessBecomesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no access"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	_, err := c.Messages(context.Background(), 42, 10, 0)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusForbidden, statusErr.Status)
	assert.Contains(t, statusErr.Error(), "403")
}

func TestClient_EventsStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/events", r.URL.Path)
		assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: Chat\ndata: {\"chat_id\":1,\"title\":\"t\",\"users_ids\":[]}\n\n")
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	body, err := c.Events(context.Background())
	require.NoError(t, err)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	require.True(t, scanner.Scan())
	assert.Equal(t, "event: Chat", scanner.Text())
}

func TestClient_EventsNonOKFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "", testLogger())
	_, err := c.Events(context.Background())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
}
