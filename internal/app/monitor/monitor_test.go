package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/ytpdc/internal/app/aggregate"
	"github.com/osa030/ytpdc/internal/app/inspector"
	"github.com/osa030/ytpdc/internal/app/poller"
	"github.com/osa030/ytpdc/internal/domain/playlist"
	"github.com/osa030/ytpdc/internal/infra/clock"
)

// mockSignals lets tests fire host signals by hand.
type mockSignals struct {
	mu         sync.Mutex
	mutated    map[int]func()
	navigated  map[int]func()
	next       int
	registered int
}

func newMockSignals() *mockSignals {
	return &mockSignals{mutated: map[int]func(){}, navigated: map[int]func(){}}
}

func (s *mockSignals) add(set map[int]func(), cb func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.registered++
	id := s.next
	set[id] = cb
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(set, id)
	}
}

func (s *mockSignals) OnListMutated(cb func()) func()        { return s.add(s.mutated, cb) }
func (s *mockSignals) OnNavigationFinished(cb func()) func() { return s.add(s.navigated, cb) }

func (s *mockSignals) fire(set map[int]func()) {
	s.mu.Lock()
	cbs := make([]func(), 0, len(set))
	for _, cb := range set {
		cbs = append(cbs, cb)
	}
	s.mu.Unlock()
	for _, cb := range cbs {
		cb()
	}
}

func (s *mockSignals) mutate()   { s.fire(s.mutated) }
func (s *mockSignals) navigate() { s.fire(s.navigated) }

// armRecorder records Arm reasons.
type armRecorder struct {
	reasons []string
}

func (a *armRecorder) Arm(reason string) { a.reasons = append(a.reasons, reason) }

func TestContext_Attach(t *testing.T) {
	signals := newMockSignals()
	armer := &armRecorder{}
	c := New(armer, signals)

	assert.NotEmpty(t, c.ID())
	assert.Equal(t, PhaseDetached, c.Phase())

	require.NoError(t, c.Attach())
	assert.Equal(t, PhaseAttached, c.Phase())
	assert.Equal(t, []string{"initial"}, armer.reasons)

	// Second attach is a no-op: no extra subscriptions, no extra arm.
	require.NoError(t, c.Attach())
	assert.Equal(t, 2, signals.registered)
	assert.Equal(t, []string{"initial"}, armer.reasons)
}

func TestContext_SignalsRearm(t *testing.T) {
	signals := newMockSignals()
	armer := &armRecorder{}
	c := New(armer, signals)

	// Signals before Attach are not subscribed yet.
	c.Notify(SignalMutation)
	assert.Empty(t, armer.reasons)

	require.NoError(t, c.Attach())
	signals.mutate()
	signals.mutate()
	signals.navigate()

	assert.Equal(t, []string{"initial", "mutation", "mutation", "navigation"}, armer.reasons)
	assert.Equal(t, 2, c.Count(SignalMutation))
	assert.Equal(t, 1, c.Count(SignalNavigation))
}

func TestContext_Close(t *testing.T) {
	signals := newMockSignals()
	armer := &armRecorder{}
	c := New(armer, signals)
	require.NoError(t, c.Attach())

	c.Close()
	c.Close()
	assert.Equal(t, PhaseClosed, c.Phase())

	signals.mutate()
	signals.navigate()
	assert.Equal(t, []string{"initial"}, armer.reasons)

	err := c.Attach()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrClosed))
}

type mutableHost struct {
	mu    sync.Mutex
	items []playlist.ListItem
}

func (h *mutableHost) set(items ...playlist.Item) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = make([]playlist.ListItem, len(items))
	for i := range items {
		h.items[i] = items[i]
	}
}

func (h *mutableHost) RenderedItems() []playlist.ListItem {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]playlist.ListItem(nil), h.items...)
}

func (h *mutableHost) ListSizeStatistic() (string, bool) { return "", false }

type resultCounter struct {
	results []playlist.Summary
}

func (r *resultCounter) Computing()                {}
func (r *resultCounter) Result(s playlist.Summary) { r.results = append(r.results, s) }

func TestContext_WithPoller(t *testing.T) {
	host := &mutableHost{}
	host.set(playlist.Video("a", "1:00"), playlist.Item{HasDuration: true})

	sched := clock.NewManual()
	presenter := &resultCounter{}
	p := poller.New(aggregate.NewEngine(host, inspector.New(nil)), presenter, sched,
		poller.Config{Interval: time.Second, MaxAttempts: 60})
	defer p.Close()

	signals := newMockSignals()
	c := New(p, signals)
	require.NoError(t, c.Attach())
	defer c.Close()

	sched.Advance(3 * time.Second)
	assert.Empty(t, presenter.results)

	// Lazy loading appends a page; the list settles only after the last append.
	host.set(playlist.Video("a", "1:00"), playlist.Video("b", "2:00"), playlist.Item{HasDuration: true})
	signals.mutate()
	sched.Advance(500 * time.Millisecond)
	host.set(playlist.Video("a", "1:00"), playlist.Video("b", "2:00"), playlist.Video("c", "3:00"))
	signals.mutate()

	sched.Advance(5 * time.Second)
	require.Len(t, presenter.results, 1)
	assert.Equal(t, int64(360), presenter.results[0].TotalSeconds)
	assert.Equal(t, poller.StateStable, p.State())

	// Navigating to another playlist starts over.
	host.set(playlist.Video("x", "10:00"))
	signals.navigate()
	sched.Advance(time.Second)
	require.Len(t, presenter.results, 2)
	assert.Equal(t, int64(600), presenter.results[1].TotalSeconds)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "detached", PhaseDetached.String())
	assert.Equal(t, "attached", PhaseAttached.String())
	assert.Equal(t, "closed", PhaseClosed.String())
	assert.Equal(t, "mutation", SignalMutation.String())
}
