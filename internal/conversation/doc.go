// Package conversation holds the client-side state for the chat UI: the
// message view of the selected conversation and the list of chats.
//
// # Overview
//
// Both stores are mutated from at least three independent asynchronous
// completion paths - pagination responses, send responses, and push-channel
// events - while the user may switch chats at any moment. There is no
// cancellation token anywhere; instead every merge into the View validates
// the chat id (and, for pagination merges, the selection epoch) captured at
// request time against the live selection, and silently refuses mismatches.
//
// # Invariant
//
// The message list exposed by View is strictly ascending by message id with
// no duplicates, regardless of the order in which completions arrive.
// Message ids are assigned by the service and increase monotonically, so id
// order is chronological order.
//
// # Change notification
//
// Subscribers receive a Change for every applied mutation over a buffered
// channel. Subscriptions are explicit pairs - Subscribe with a context and
// Unsubscribe with the returned id - so an inactive view layer never leaks
// observers. Changes to slow subscribers are dropped rather than blocking a
// store mutation.
package conversation
