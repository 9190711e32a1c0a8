package poller

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytpdc/internal/app/aggregate"
	"github.com/osa030/ytpdc/internal/domain/playlist"
	"github.com/osa030/ytpdc/internal/infra/clock"
)

// Defaults
const (
	DefaultInterval    = time.Second
	DefaultMaxAttempts = 60
)

// Presenter receives the poller's output.
// Calls are made with the poller lock held and must not call back into the Poller.
type Presenter interface {
	// Computing shows a placeholder while the rendered items settle.
	Computing()
	// Result shows the summary of a settled generation.
	Result(summary playlist.Summary)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Delay between ticks
	MaxAttempts int           // Ticks before giving up
}

// Poller drives one poll sequence at a time for a single playlist view.
type Poller struct {
	mu sync.Mutex

	// Dependencies
	engine    *aggregate.Engine
	presenter Presenter
	scheduler clock.Scheduler

	// Current generation
	state       State
	attempt     int
	generation  uint64
	reason      string
	timerCancel func() // Cancel function for the pending tick

	// Configuration
	config Config

	// Events
	eventCh chan Event

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new poller in the idle state.
func New(engine *aggregate.Engine, presenter Presenter, scheduler clock.Scheduler, config Config) *Poller {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if scheduler == nil {
		scheduler = clock.Real{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		engine:    engine,
		presenter: presenter,
		scheduler: scheduler,
		state:     StateIdle,
		config:    config,
		eventCh:   make(chan Event, 16),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Events returns the event channel.
func (p *Poller) Events() <-chan Event {
	return p.eventCh
}

// Arm starts a new generation, superseding any poll in flight.
func (p *Poller) Arm(reason string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx.Err() != nil {
		return
	}

	// The old tick must be gone before the new generation schedules its own.
	p.stopTimerLocked()

	p.generation++
	p.attempt = 0
	p.reason = reason
	p.state = StatePolling

	zlog.Debug().Msgf("poller: armed generation=%d reason=%s", p.generation, reason)

	p.presenter.Computing()
	p.sendEventLocked(Event{Type: EventArmed, Generation: p.generation, Reason: reason})

	p.scheduleLocked()
}

// Stop cancels the pending tick and returns to idle.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopTimerLocked()
	p.state = StateIdle
	p.attempt = 0
}

// State returns the current poll state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Attempt returns the number of ticks taken by the current generation.
func (p *Poller) Attempt() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.attempt
}

// Generation returns the current generation number (0 before the first Arm).
func (p *Poller) Generation() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generation
}

// Close stops the poller and closes the event channel.
func (p *Poller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ctx.Err() != nil {
		return
	}
	p.cancel()
	p.stopTimerLocked()
	p.state = StateIdle
	close(p.eventCh)
}

// tick handles one poll attempt for generation gen.
func (p *Poller) tick(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// A tick already fired by the scheduler may arrive after a newer Arm.
	if gen != p.generation || p.state != StatePolling || p.ctx.Err() != nil {
		return
	}
	p.timerCancel = nil
	p.attempt++

	// One snapshot serves both the readiness check and the summary.
	items := p.engine.Snapshot()
	if p.isStableLocked(items) {
		p.settleLocked(items)
		return
	}

	if p.attempt >= p.config.MaxAttempts {
		p.state = StateTimedOut
		zlog.Warn().Msgf("poller: generation=%d did not settle after %d attempts", p.generation, p.attempt)
		p.sendEventLocked(Event{Type: EventTimedOut, Generation: p.generation, Attempt: p.attempt, Reason: p.reason})
		return
	}

	p.scheduleLocked()
}

// isStableLocked reports whether every item without a duration is a known
// unavailable video. Must be called with lock held.
func (p *Poller) isStableLocked(items []playlist.ListItem) bool {
	in := p.engine.Inspector()

	if !in.HasDurationIndicator(items) {
		zlog.Debug().Msgf("poller: generation=%d attempt=%d: no duration overlay rendered", p.generation, p.attempt)
		return false
	}
	missing := in.CountMissingDurationSignal(items)
	unavailable := in.CountUnavailable(items)
	if missing != unavailable {
		zlog.Debug().Msgf("poller: generation=%d attempt=%d: missing=%d unavailable=%d",
			p.generation, p.attempt, missing, unavailable)
		return false
	}
	return true
}

// settleLocked aggregates and delivers the summary. Must be called with lock held.
func (p *Poller) settleLocked(items []playlist.ListItem) {
	p.state = StateStable

	summary, err := p.engine.Summarize(items)
	if err != nil {
		if errors.Is(err, aggregate.ErrEmptyList) {
			zlog.Info().Msgf("poller: generation=%d settled with no items", p.generation)
			p.sendEventLocked(Event{Type: EventEmpty, Generation: p.generation, Attempt: p.attempt, Reason: p.reason})
			return
		}
		zlog.Error().Err(err).Msgf("poller: generation=%d aggregation failed", p.generation)
		return
	}

	zlog.Info().Msgf("poller: generation=%d settled after %d attempts: total=%s counted=%d",
		p.generation, p.attempt, summary.FormattedDuration(), summary.CountedItems)

	p.presenter.Result(summary)
	p.sendEventLocked(Event{
		Type:       EventStable,
		Generation: p.generation,
		Attempt:    p.attempt,
		Reason:     p.reason,
		Summary:    &summary,
	})
}

// scheduleLocked schedules the next tick of the current generation.
// Must be called with lock held.
func (p *Poller) scheduleLocked() {
	gen := p.generation
	p.timerCancel = p.scheduler.AfterFunc(p.config.Interval, func() {
		p.tick(gen)
	})
}

// stopTimerLocked cancels the pending tick. Must be called with lock held.
func (p *Poller) stopTimerLocked() {
	if p.timerCancel != nil {
		p.timerCancel()
		p.timerCancel = nil
	}
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (p *Poller) sendEventLocked(e Event) {
	select {
	case p.eventCh <- e:
	case <-p.ctx.Done():
	default:
		// Nobody is draining; observers only need the latest transitions.
	}
}
