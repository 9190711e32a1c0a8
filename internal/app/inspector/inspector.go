// Package inspector reads per-item duration signals from a rendered playlist snapshot.
package inspector

import (
	"strings"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/ytpdc/internal/domain/playlist"
	"github.com/osa030/ytpdc/internal/domain/timestamp"
)

// DefaultUnavailableMarkers are the titles the host renders in place of a
// video that can no longer be played.
var DefaultUnavailableMarkers = []string{
	"[Private video]",
	"[Deleted video]",
	"[Unavailable]",
	"[Video unavailable]",
	"[Restricted video]",
	"[Age restricted]",
}

// Slot is the duration read for one item.
type Slot struct {
	Seconds int64
	OK      bool // false if no duration could be extracted
}

// Inspector classifies rendered items. It holds no state between calls.
type Inspector struct {
	markers map[string]struct{}
}

// New creates an inspector. An empty marker list selects DefaultUnavailableMarkers.
func New(markers []string) *Inspector {
	if len(markers) == 0 {
		markers = DefaultUnavailableMarkers
	}
	set := make(map[string]struct{}, len(markers))
	for _, m := range markers {
		set[m] = struct{}{}
	}
	return &Inspector{markers: set}
}

// Inspect returns one slot per item, in order.
func (in *Inspector) Inspect(items []playlist.ListItem) []Slot {
	slots := make([]Slot, len(items))
	for i, item := range items {
		slots[i] = in.read(i, item)
	}
	return slots
}

func (in *Inspector) read(index int, item playlist.ListItem) Slot {
	if item == nil {
		return Slot{}
	}
	text, ok := item.DurationText()
	if !ok || text == "" {
		return Slot{}
	}
	seconds, err := timestamp.Parse(text)
	if err != nil {
		zlog.Debug().Msgf("inspector: item %d: %v", index+1, err)
		return Slot{}
	}
	return Slot{Seconds: seconds, OK: true}
}

// CountUnavailable counts items whose title is one of the unavailability markers.
func (in *Inspector) CountUnavailable(items []playlist.ListItem) int {
	count := 0
	for _, item := range items {
		if item == nil {
			continue
		}
		title, ok := item.AvailabilityLabel()
		if !ok {
			continue
		}
		if _, hit := in.markers[title]; hit {
			count++
		}
	}
	return count
}

// CountMissingDurationSignal counts items whose duration overlay is absent or
// has no text yet. Overlays with text that does not parse ("LIVE", "SHORTS")
// are rendered and do not count, even though Inspect leaves them out of the sum.
func (in *Inspector) CountMissingDurationSignal(items []playlist.ListItem) int {
	count := 0
	for _, item := range items {
		if item == nil {
			count++
			continue
		}
		text, ok := item.DurationText()
		if !ok || strings.TrimSpace(text) == "" {
			count++
		}
	}
	return count
}

// HasDurationIndicator reports whether any item renders a duration overlay.
func (in *Inspector) HasDurationIndicator(items []playlist.ListItem) bool {
	for _, item := range items {
		if item == nil {
			continue
		}
		if _, ok := item.DurationText(); ok {
			return true
		}
	}
	return false
}
