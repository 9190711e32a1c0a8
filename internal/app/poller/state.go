// Package poller waits for a rendered playlist to settle before summarising it.
package poller

// State represents the poll state.
type State int

const (
	StateIdle     State = iota // No poll sequence armed
	StatePolling               // Waiting for the rendered items to settle
	StateStable                // Summary delivered for the current generation
	StateTimedOut              // Gave up after MaxAttempts ticks
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateStable:
		return "stable"
	case StateTimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// Terminal reports whether no tick is pending in this state.
func (s State) Terminal() bool {
	return s != StatePolling
}
