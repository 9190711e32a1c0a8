package poller

import "github.com/osa030/ytpdc/internal/domain/playlist"

// EventType represents a poller event type.
type EventType int

const (
	EventArmed     EventType = iota // New generation started
	EventStable                     // Summary computed and delivered
	EventEmpty                      // Settled but no items were rendered
	EventTimedOut                   // Gave up waiting
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventArmed:
		return "armed"
	case EventStable:
		return "stable"
	case EventEmpty:
		return "empty"
	case EventTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Event represents a poller transition.
type Event struct {
	Type       EventType
	Generation uint64
	Attempt    int
	Reason     string            // Why the generation was armed
	Summary    *playlist.Summary // Set for EventStable
}
