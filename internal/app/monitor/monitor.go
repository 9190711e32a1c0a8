package monitor

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
)

var ErrClosed = errors.New("monitor is closed")

// Signals is the host's change notification surface.
// Each registration returns a function that removes the callback.
type Signals interface {
	OnListMutated(callback func()) (unsubscribe func())
	OnNavigationFinished(callback func()) (unsubscribe func())
}

// Armer restarts a poll sequence. Implemented by *poller.Poller.
type Armer interface {
	Arm(reason string)
}

// Context is the per-view wiring state. One Context exists per playlist
// view and is shared by everything reacting to that view's changes.
type Context struct {
	mu sync.RWMutex

	id    string
	phase Phase

	poller  Armer
	signals Signals

	unsubscribe []func()
	counts      map[Signal]int
}

// New creates a detached context for one playlist view.
func New(p Armer, signals Signals) *Context {
	return &Context{
		id:      uuid.New().String(),
		phase:   PhaseDetached,
		poller:  p,
		signals: signals,
		counts:  make(map[Signal]int),
	}
}

// Attach subscribes to the host signals and arms the poller for the current
// render. Calling Attach on an attached context does nothing.
func (c *Context) Attach() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.phase {
	case PhaseAttached:
		return nil
	case PhaseClosed:
		return ErrClosed
	}

	c.unsubscribe = append(c.unsubscribe,
		c.signals.OnListMutated(func() { c.Notify(SignalMutation) }),
		c.signals.OnNavigationFinished(func() { c.Notify(SignalNavigation) }),
	)
	c.phase = PhaseAttached
	zlog.Debug().Msgf("monitor: context=%s attached", c.id)

	c.armLocked(SignalInitial)
	return nil
}

// Notify re-arms the poller. Signals received while detached or closed are dropped.
func (c *Context) Notify(s Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != PhaseAttached {
		zlog.Debug().Msgf("monitor: context=%s dropping %s signal in phase %s", c.id, s, c.phase)
		return
	}
	c.armLocked(s)
}

// Close unsubscribes from the host signals. Close is idempotent.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == PhaseClosed {
		return
	}
	for _, unsub := range c.unsubscribe {
		if unsub != nil {
			unsub()
		}
	}
	c.unsubscribe = nil
	c.phase = PhaseClosed
	zlog.Debug().Msgf("monitor: context=%s closed", c.id)
}

// ID returns the context ID.
func (c *Context) ID() string {
	return c.id
}

// Phase returns the current lifecycle phase.
func (c *Context) Phase() Phase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phase
}

// Count returns how many times the poller was armed for signal s.
func (c *Context) Count(s Signal) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[s]
}

// armLocked must be called with c.mu held.
func (c *Context) armLocked(s Signal) {
	c.counts[s]++
	c.poller.Arm(s.String())
}
