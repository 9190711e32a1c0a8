// Package playlist provides the rendered playlist view entities.
package playlist

import "github.com/osa030/ytpdc/internal/domain/timestamp"

// ScrollHintThreshold is the counted-item count from which the view is
// likely still paginating and the user should scroll to load more items.
const ScrollHintThreshold = 100

// ListItem is a handle to one rendered playlist entry.
// A handle is only valid for the snapshot it was read from.
type ListItem interface {
	// DurationText returns the text of the duration overlay.
	// The bool is false when the overlay element is not rendered at all.
	DurationText() (string, bool)
	// AvailabilityLabel returns the item title used to detect unavailable videos.
	AvailabilityLabel() (string, bool)
}

// Item is a plain ListItem, used by in-memory hosts and tests.
type Item struct {
	Duration    string // Duration overlay text
	HasDuration bool   // Overlay element rendered
	Title       string // Title attribute
	HasTitle    bool   // Title element rendered
}

// DurationText implements ListItem.
func (i Item) DurationText() (string, bool) {
	return i.Duration, i.HasDuration
}

// AvailabilityLabel implements ListItem.
func (i Item) AvailabilityLabel() (string, bool) {
	return i.Title, i.HasTitle
}

// Video returns a rendered item with the given duration text.
func Video(title, duration string) Item {
	return Item{Duration: duration, HasDuration: true, Title: title, HasTitle: true}
}

// Unavailable returns a rendered item without a duration overlay.
func Unavailable(title string) Item {
	return Item{Title: title, HasTitle: true}
}

// Summary is the aggregate over the rendered items of a playlist.
type Summary struct {
	TotalSeconds      int64 // Sum of all resolved durations
	CountedItems      int   // Items with a resolved duration
	TotalVideosInList *int  // Displayed playlist size (nil if not rendered)
}

// FormattedDuration returns the total as HH:MM:SS.
func (s Summary) FormattedDuration() string {
	return timestamp.MustFormat(s.TotalSeconds)
}

// NotCounted returns how many videos of the playlist were not counted.
// Returns false if the playlist size is unknown.
func (s Summary) NotCounted() (int, bool) {
	if s.TotalVideosInList == nil {
		return 0, false
	}
	n := *s.TotalVideosInList - s.CountedItems
	if n < 0 {
		return 0, true
	}
	return n, true
}

// NeedsScrollHint reports whether enough items were counted that more are
// probably waiting behind lazy loading.
func (s Summary) NeedsScrollHint() bool {
	return s.CountedItems >= ScrollHintThreshold
}
