package playlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestItem_Accessors(t *testing.T) {
	v := Video("Song 1", "3:15")
	text, ok := v.DurationText()
	assert.True(t, ok)
	assert.Equal(t, "3:15", text)
	title, ok := v.AvailabilityLabel()
	assert.True(t, ok)
	assert.Equal(t, "Song 1", title)

	u := Unavailable("[Private video]")
	_, ok = u.DurationText()
	assert.False(t, ok)
	title, ok = u.AvailabilityLabel()
	assert.True(t, ok)
	assert.Equal(t, "[Private video]", title)

	var empty Item
	_, ok = empty.AvailabilityLabel()
	assert.False(t, ok)
}

func TestSummary_NotCounted(t *testing.T) {
	tests := []struct {
		name     string
		summary  Summary
		expected int
		known    bool
	}{
		{
			name:    "unknown playlist size",
			summary: Summary{CountedItems: 3},
			known:   false,
		},
		{
			name:     "some videos not counted",
			summary:  Summary{CountedItems: 3, TotalVideosInList: intPtr(5)},
			expected: 2,
			known:    true,
		},
		{
			name:     "all videos counted",
			summary:  Summary{CountedItems: 5, TotalVideosInList: intPtr(5)},
			expected: 0,
			known:    true,
		},
		{
			name:     "stale statistic is clamped",
			summary:  Summary{CountedItems: 7, TotalVideosInList: intPtr(5)},
			expected: 0,
			known:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, known := tt.summary.NotCounted()
			assert.Equal(t, tt.known, known)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestSummary_Properties(t *testing.T) {
	s := Summary{TotalSeconds: 3723, CountedItems: 99}
	assert.Equal(t, "01:02:03", s.FormattedDuration())
	assert.False(t, s.NeedsScrollHint())

	s.CountedItems = 100
	assert.True(t, s.NeedsScrollHint())
}
