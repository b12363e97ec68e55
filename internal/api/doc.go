// Package api is the HTTP client for the parlor chat service.
//
// # Overview
//
// The Client wraps the service's JSON endpoints and attaches the session
// cookie to every request. It deliberately knows nothing about how the
// session token was obtained; login and registration are handled elsewhere
// and the token arrives here as an opaque string.
//
// # Endpoints
//
//   - Chats: GET /chats, all chats in creation order
//   - CreateChat: POST /chats
//   - Messages: GET /chats/{id} with limit/last_message_id pagination
//   - SendMessage: POST /chats/{id}
//   - User: GET /users/{id}
//   - SearchUsers: GET /search/users
//   - Events: GET /events, the long-lived SSE push channel
//
// # Ordering
//
// The service returns message pages newest-first. Messages reverses each
// page before returning it, so every consumer of this package sees
// messages in ascending id (chronological) order.
//
// # Errors
//
// Non-2xx responses are returned as *StatusError. Callers in this codebase
// log the failure and abandon the operation; there are no retries.
package api
