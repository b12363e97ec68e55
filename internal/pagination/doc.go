// Package pagination drives history fetches for the selected conversation.
//
// # State machine
//
// The Controller moves through an explicit lifecycle:
//
//	Idle -> Loading -> Loaded <-> Paginating
//
// Select resets the view and enters Loading; its completion enters Loaded.
// SentinelVisible enters Paginating while older history exists; its
// completion returns to Loaded. Transitions happen only through these
// calls, never through implicit data dependencies.
//
// # Concurrency discipline
//
// Two guards replace cancellation tokens entirely:
//
//   - In-flight guard: at most one fetch is outstanding; SentinelVisible is
//     dropped unless the controller is Loaded.
//   - Staleness guard: every fetch captures the chat id and selection epoch
//     at issue time, and a completion whose epoch no longer matches the
//     live selection is discarded without touching the view.
//
// Failed fetches are logged and abandoned: no retries, no backoff, no
// timeouts. A hung request leaves the controller in its loading state
// indefinitely.
package pagination
