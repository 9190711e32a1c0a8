// Package aggregate sums the rendered durations of a playlist.
package aggregate

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/osa030/ytpdc/internal/app/inspector"
	"github.com/osa030/ytpdc/internal/domain/playlist"
	"github.com/osa030/ytpdc/internal/domain/timestamp"
)

// MaxIndex is the largest accepted 1-based range bound.
const MaxIndex = 1_000_000_000

// Errors
var (
	ErrEmptyList    = errors.New("no items rendered")
	ErrInvalidRange = errors.New("invalid range")
)

// Host is the rendered playlist view the engine reads from.
type Host interface {
	// RenderedItems returns a snapshot of the currently rendered items, in order.
	RenderedItems() []playlist.ListItem
	// ListSizeStatistic returns the displayed "N videos" text.
	ListSizeStatistic() (string, bool)
}

// Engine aggregates durations read through an Inspector.
type Engine struct {
	host      Host
	inspector *inspector.Inspector
}

// NewEngine creates a new aggregation engine.
func NewEngine(host Host, in *inspector.Inspector) *Engine {
	return &Engine{host: host, inspector: in}
}

// Inspector returns the inspector used by the engine.
func (e *Engine) Inspector() *inspector.Inspector {
	return e.inspector
}

// Snapshot reads the currently rendered items.
func (e *Engine) Snapshot() []playlist.ListItem {
	return e.host.RenderedItems()
}

// AggregateAll sums the durations of every rendered item.
func (e *Engine) AggregateAll() (playlist.Summary, error) {
	return e.Summarize(e.host.RenderedItems())
}

// Summarize sums the durations of a snapshot already taken with Snapshot.
func (e *Engine) Summarize(items []playlist.ListItem) (playlist.Summary, error) {
	total, counted, err := e.sum(items)
	if err != nil {
		return playlist.Summary{}, err
	}
	return playlist.Summary{
		TotalSeconds:      total,
		CountedItems:      counted,
		TotalVideosInList: e.TotalVideosInList(),
	}, nil
}

// AggregateRange sums the durations of items start..end (1-based, inclusive).
func (e *Engine) AggregateRange(start, end int) (int64, error) {
	if err := ValidateRange(start, end); err != nil {
		return 0, err
	}
	items := e.host.RenderedItems()

	lo := min(start-1, len(items))
	hi := min(end, len(items))
	total, _, err := e.sum(items[lo:hi])
	if err != nil {
		return 0, errors.Wrapf(err, "range %d-%d of %d rendered items", start, end, len(items))
	}
	return total, nil
}

// RangeQuery validates user supplied bounds and returns the formatted duration
// of that range.
func (e *Engine) RangeQuery(startText, endText string) (string, error) {
	start, end, err := ParseRange(startText, endText)
	if err != nil {
		return "", err
	}
	total, err := e.AggregateRange(start, end)
	if err != nil {
		return "", err
	}
	return timestamp.Format(total)
}

// TotalVideosInList returns the playlist size shown by the host.
// Returns nil if the statistic is not rendered or has no digits.
func (e *Engine) TotalVideosInList() *int {
	text, ok := e.host.ListSizeStatistic()
	if !ok {
		return nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, text)
	if digits == "" {
		return nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}

func (e *Engine) sum(items []playlist.ListItem) (int64, int, error) {
	if len(items) == 0 {
		return 0, 0, ErrEmptyList
	}
	var (
		total   int64
		counted int
	)
	for _, slot := range e.inspector.Inspect(items) {
		if !slot.OK {
			continue
		}
		total += slot.Seconds
		counted++
	}
	return total, counted, nil
}

// ValidateRange checks 1-based inclusive range bounds.
func ValidateRange(start, end int) error {
	if start < 1 || start > MaxIndex {
		return errors.Wrapf(ErrInvalidRange, "start %d out of [1, %d]", start, MaxIndex)
	}
	if end < 1 || end > MaxIndex {
		return errors.Wrapf(ErrInvalidRange, "end %d out of [1, %d]", end, MaxIndex)
	}
	if start > end {
		return errors.Wrapf(ErrInvalidRange, "start %d after end %d", start, end)
	}
	return nil
}

// ParseRange parses range bounds typed by a user. Each bound must be the
// canonical decimal form of an integer, surrounding whitespace aside.
func ParseRange(startText, endText string) (int, int, error) {
	start, err := parseIndex(startText)
	if err != nil {
		return 0, 0, errors.Wrap(err, "start")
	}
	end, err := parseIndex(endText)
	if err != nil {
		return 0, 0, errors.Wrap(err, "end")
	}
	if err := ValidateRange(start, end); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

func parseIndex(text string) (int, error) {
	trimmed := strings.TrimFunc(text, unicode.IsSpace)
	n, err := strconv.Atoi(trimmed)
	if err != nil || strconv.Itoa(n) != trimmed {
		return 0, errors.Wrapf(ErrInvalidRange, "%q is not an integer", text)
	}
	return n, nil
}
