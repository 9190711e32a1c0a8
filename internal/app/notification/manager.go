// Package notification fans poller output out to presentation subscribers.
package notification

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/osa030/ytpdc/internal/app/poller"
	"github.com/osa030/ytpdc/internal/domain/playlist"
)

// subscription represents a subscriber's subscription.
type subscription struct {
	id        string
	seq       uint64 // subscription order
	presenter poller.Presenter
}

// Manager manages presenter subscriptions and broadcasting.
// It implements poller.Presenter.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	subscribed    uint64
	sequenceNo    uint64
	last          *playlist.Summary
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a presenter and returns the subscription ID.
// A presenter subscribing after a result was delivered receives it immediately.
func (m *Manager) Subscribe(p poller.Presenter) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribed++
	id := uuid.New().String()
	m.subscriptions[id] = &subscription{id: id, seq: m.subscribed, presenter: p}
	if m.last != nil {
		p.Result(*m.last)
	}
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// Computing broadcasts the placeholder signal.
func (m *Manager) Computing() {
	m.mu.Lock()
	m.sequenceNo++
	m.last = nil
	m.mu.Unlock()

	for _, s := range m.snapshot() {
		s.presenter.Computing()
	}
}

// Result broadcasts a settled summary.
func (m *Manager) Result(summary playlist.Summary) {
	m.mu.Lock()
	m.sequenceNo++
	m.last = &summary
	m.mu.Unlock()

	for _, s := range m.snapshot() {
		s.presenter.Result(summary)
	}
}

// Last returns the most recent summary, if the current generation has one.
func (m *Manager) Last() (playlist.Summary, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.last == nil {
		return playlist.Summary{}, false
	}
	return *m.last, true
}

// SequenceNo returns the number of notifications broadcast so far.
func (m *Manager) SequenceNo() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sequenceNo
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}

// snapshot copies subscriptions in subscription order so presenters are
// called without holding the lock.
func (m *Manager) snapshot() []*subscription {
	m.mu.RLock()
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	sort.Slice(subs, func(i, j int) bool { return subs[i].seq < subs[j].seq })
	return subs
}
