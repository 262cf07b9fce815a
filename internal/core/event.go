package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventSystem carries a relay-generated notice, private or broadcast.
	EventSystem EventKind = iota
	// EventChat carries a chat message delivered to channel members.
	EventChat
	// EventHistory delivers a channel's history buffer to one client.
	EventHistory
	// EventAuthResponse reports the outcome of a team join attempt.
	EventAuthResponse
	// EventError reports a request-level error to one client.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Record  Record
	Records []Record // for EventHistory
	Success bool     // for EventAuthResponse
	At      time.Time
	Error   *CoreError
}
