// Package duration parses the compact "<amount><unit>" durations used by the
// moderation commands (10m, 2h, 1d, 1w).
package duration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidDuration is returned for input that does not match <digits><unit>
	ErrInvalidDuration = errors.New("formato de duración inválido")
	// ErrZeroDuration is returned when a positive duration is required
	ErrZeroDuration = errors.New("la duración debe ser mayor que cero")
)

var pattern = regexp.MustCompile(`(?i)^(\d+)([mhdw])$`)

var unitSeconds = map[byte]int64{
	'm': 60,
	'h': 3600,
	'd': 86400,
	'w': 604800,
}

// maxSeconds keeps the result representable as a time.Duration
const maxSeconds = math.MaxInt64 / int64(time.Second)

// Parse converts s into seconds. ok is false when s is not a valid duration,
// including amounts that would overflow.
func Parse(s string) (seconds int64, ok bool) {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	unit := unitSeconds[strings.ToLower(m[2])[0]]
	if amount > maxSeconds/unit {
		return 0, false
	}
	return amount * unit, true
}

// ParsePositive parses s and rejects zero durations
func ParsePositive(s string) (time.Duration, error) {
	seconds, ok := Parse(s)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	if seconds == 0 {
		return 0, ErrZeroDuration
	}
	return time.Duration(seconds) * time.Second, nil
}

// Format renders seconds as "1w 2d 3h 4m", omitting zero parts
func Format(seconds int64) string {
	if seconds < 60 {
		return "0m"
	}
	parts := make([]string, 0, 4)
	for _, u := range []struct {
		suffix string
		size   int64
	}{
		{"w", 604800},
		{"d", 86400},
		{"h", 3600},
		{"m", 60},
	} {
		if n := seconds / u.size; n > 0 {
			parts = append(parts, fmt.Sprintf("%d%s", n, u.suffix))
			seconds %= u.size
		}
	}
	return strings.Join(parts, " ")
}
