package inspector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/ytpdc/internal/domain/playlist"
)

func items(in ...playlist.Item) []playlist.ListItem {
	out := make([]playlist.ListItem, len(in))
	for i := range in {
		out[i] = in[i]
	}
	return out
}

func TestInspector_Inspect(t *testing.T) {
	in := New(nil)

	slots := in.Inspect(items(
		playlist.Video("a", "1:00"),
		playlist.Unavailable("[Deleted video]"),
		playlist.Video("b", ""),
		playlist.Video("c", "LIVE"),
		playlist.Video("d", "1:02:03"),
	))

	assert.Equal(t, []Slot{
		{Seconds: 60, OK: true},
		{},
		{},
		{},
		{Seconds: 3723, OK: true},
	}, slots)
}

func TestInspector_Inspect_Empty(t *testing.T) {
	assert.Empty(t, New(nil).Inspect(nil))
}

func TestInspector_CountUnavailable(t *testing.T) {
	tests := []struct {
		name     string
		markers  []string
		items    []playlist.ListItem
		expected int
	}{
		{
			name: "default markers",
			items: items(
				playlist.Unavailable("[Private video]"),
				playlist.Unavailable("[Deleted video]"),
				playlist.Unavailable("[Unavailable]"),
				playlist.Unavailable("[Video unavailable]"),
				playlist.Unavailable("[Restricted video]"),
				playlist.Unavailable("[Age restricted]"),
				playlist.Video("Private video", "1:00"),
			),
			expected: 6,
		},
		{
			name:     "marker match is exact",
			items:    items(playlist.Unavailable("[private video]"), playlist.Unavailable("[Private video] ")),
			expected: 0,
		},
		{
			name:     "missing title element",
			items:    items(playlist.Item{}),
			expected: 0,
		},
		{
			name:     "custom markers",
			markers:  []string{"[Vidéo privée]"},
			items:    items(playlist.Unavailable("[Vidéo privée]"), playlist.Unavailable("[Private video]")),
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.markers).CountUnavailable(tt.items))
		})
	}
}

func TestInspector_CountMissingDurationSignal(t *testing.T) {
	tests := []struct {
		name     string
		items    []playlist.ListItem
		expected int
	}{
		{
			name: "absent and blank overlays",
			items: items(
				playlist.Video("a", "4:00"),
				playlist.Unavailable("[Private video]"),
				playlist.Item{Title: "still loading", HasTitle: true},
				playlist.Video("b", "   "),
			),
			expected: 3,
		},
		{
			name: "unparsable overlay text is rendered",
			items: items(
				playlist.Video("a", "1:00"),
				playlist.Video("stream", "LIVE"),
				playlist.Video("premiere", "UPCOMING"),
				playlist.Video("short", "SHORTS"),
			),
			expected: 0,
		},
		{
			name:     "nil item",
			items:    []playlist.ListItem{nil},
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(nil).CountMissingDurationSignal(tt.items))
		})
	}
}

func TestInspector_UnparsableOverlayIsNotCounted(t *testing.T) {
	in := New(nil)
	list := items(playlist.Video("a", "1:00"), playlist.Video("stream", "LIVE"))

	assert.Equal(t, 0, in.CountMissingDurationSignal(list))
	assert.Equal(t, []Slot{{Seconds: 60, OK: true}, {}}, in.Inspect(list))
}

func TestInspector_HasDurationIndicator(t *testing.T) {
	in := New(nil)

	assert.False(t, in.HasDurationIndicator(nil))
	assert.False(t, in.HasDurationIndicator(items(playlist.Unavailable("[Private video]"))))
	// An overlay with no text yet still counts as rendered.
	assert.True(t, in.HasDurationIndicator(items(playlist.Item{HasDuration: true})))
}
