// Package timestamp converts clock-style duration text to whole seconds and back.
package timestamp

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrParseFailure     = errors.New("duration text has no numeric component")
	ErrNegativeDuration = errors.New("duration must be non-negative")
)

// Parse converts "H:MM:SS", "MM:SS" or "SS" text into seconds.
//
// Components are read right to left. A component that does not start with a
// decimal digit is skipped and does not advance the positional multiplier, so
// "1:xx:30" parses as 90 seconds rather than as an hour.
func Parse(text string) (int64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, errors.Wrap(ErrParseFailure, "empty text")
	}

	components := strings.Split(text, ":")

	var (
		seconds    int64
		multiplier int64 = 1
		consumed   bool
	)
	for i := len(components) - 1; i >= 0; i-- {
		value, ok, err := leadingInt(components[i])
		if err != nil {
			return 0, errors.Wrapf(ErrParseFailure, "component overflows in %q", text)
		}
		if !ok {
			continue
		}
		if multiplier == 0 {
			return 0, errors.Wrapf(ErrParseFailure, "too many components in %q", text)
		}
		if value > 0 && value > (math.MaxInt64-seconds)/multiplier {
			return 0, errors.Wrapf(ErrParseFailure, "value overflows in %q", text)
		}
		seconds += value * multiplier
		consumed = true

		// Positions beyond what int64 can hold are marked by a zero multiplier.
		if multiplier > math.MaxInt64/60 {
			multiplier = 0
		} else {
			multiplier *= 60
		}
	}

	if !consumed {
		return 0, errors.Wrapf(ErrParseFailure, "%q", text)
	}
	return seconds, nil
}

// leadingInt returns the integer formed by the leading digits of s after
// trimming whitespace. It reports false when s has no leading digit.
func leadingInt(s string) (int64, bool, error) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// Format renders seconds as HH:MM:SS. Hours grow past two digits as needed.
func Format(seconds int64) (string, error) {
	if seconds < 0 {
		return "", errors.Wrapf(ErrNegativeDuration, "got %d", seconds)
	}
	hours := seconds / 3600
	seconds %= 3600
	return fmt.Sprintf("%02d:%02d:%02d", hours, seconds/60, seconds%60), nil
}

// MustFormat is like Format but panics on negative input.
func MustFormat(seconds int64) string {
	s, err := Format(seconds)
	if err != nil {
		panic(err)
	}
	return s
}
