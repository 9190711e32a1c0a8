// Package monitor re-arms the poller when the playlist view changes.
package monitor

// Phase represents the monitor lifecycle phase.
type Phase int

const (
	PhaseDetached Phase = iota // Not subscribed to any signal
	PhaseAttached              // Subscribed; signals re-arm the poller
	PhaseClosed                // Unsubscribed for good
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseDetached:
		return "detached"
	case PhaseAttached:
		return "attached"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Signal identifies what changed in the host view.
type Signal int

const (
	SignalInitial    Signal = iota // First render when attaching
	SignalMutation                 // Items appended or removed
	SignalNavigation               // A different playlist replaced the view
)

// String returns the string representation of the signal.
func (s Signal) String() string {
	switch s {
	case SignalInitial:
		return "initial"
	case SignalMutation:
		return "mutation"
	case SignalNavigation:
		return "navigation"
	default:
		return "unknown"
	}
}
