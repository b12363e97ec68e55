// Package events maintains the push channel: the single long-lived
// server-sent-event connection delivering chat and message creation
// notifications.
//
// The channel is opened once for the lifetime of the chat surface and
// routes every event into the stores regardless of which chat is selected;
// filtering by selection is the stores' job. There is no reconnect or
// backoff: when the connection drops, Done is closed and live updates stop
// until the surface is reactivated.
package events
