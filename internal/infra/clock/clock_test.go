package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_Advance(t *testing.T) {
	m := NewManual()
	var fired []string

	m.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	m.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	assert.Equal(t, 2, m.Pending())

	m.Advance(500 * time.Millisecond)
	assert.Empty(t, fired)

	m.Advance(time.Second)
	assert.Equal(t, []string{"a"}, fired)

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_Cancel(t *testing.T) {
	m := NewManual()
	fired := false

	cancel := m.AfterFunc(time.Second, func() { fired = true })
	cancel()
	cancel()

	m.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_Reschedule(t *testing.T) {
	m := NewManual()
	count := 0

	var tick func()
	tick = func() {
		count++
		if count < 3 {
			m.AfterFunc(time.Second, tick)
		}
	}
	m.AfterFunc(time.Second, tick)

	m.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}

func TestReal_AfterFunc(t *testing.T) {
	done := make(chan struct{})
	Real{}.AfterFunc(time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "callback did not fire")
	}

	fired := make(chan struct{}, 1)
	cancel := Real{}.AfterFunc(time.Hour, func() { fired <- struct{}{} })
	cancel()
	assert.Empty(t, fired)
}
