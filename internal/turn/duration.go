package turn

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseISO8601Duration parses the small fixed vocabulary of ISO-8601
// durations this module uses for turn deadlines: "PT" followed by any
// combination of "<n>H", "<n>M", "<n>S" (e.g. "PT1H", "PT30M",
// "PT1H30M", "PT45S"). No calendar components (Y/M/W/D) are
// supported — turn deadlines are always sub-day.
//
// No dependency in this module's stack offers ISO-8601 duration
// parsing, so this is hand-written against that fixed vocabulary
// rather than pulled in from a general-purpose library.
func ParseISO8601Duration(s string) (time.Duration, error) {
	if !strings.HasPrefix(s, "PT") {
		return 0, fmt.Errorf("turn: duration %q must start with PT", s)
	}
	rest := s[2:]
	if rest == "" {
		return 0, fmt.Errorf("turn: duration %q has no components", s)
	}

	var total time.Duration
	var numBuf strings.Builder
	for _, r := range rest {
		switch {
		case r >= '0' && r <= '9':
			numBuf.WriteRune(r)
		case r == 'H', r == 'M', r == 'S':
			if numBuf.Len() == 0 {
				return 0, fmt.Errorf("turn: duration %q missing number before %q", s, string(r))
			}
			n, err := strconv.Atoi(numBuf.String())
			if err != nil {
				return 0, fmt.Errorf("turn: duration %q has invalid number: %w", s, err)
			}
			numBuf.Reset()
			switch r {
			case 'H':
				total += time.Duration(n) * time.Hour
			case 'M':
				total += time.Duration(n) * time.Minute
			case 'S':
				total += time.Duration(n) * time.Second
			}
		default:
			return 0, fmt.Errorf("turn: duration %q has unsupported component %q", s, string(r))
		}
	}
	if numBuf.Len() != 0 {
		return 0, fmt.Errorf("turn: duration %q has a trailing number with no unit", s)
	}
	if total <= 0 {
		return 0, fmt.Errorf("turn: duration %q must be positive", s)
	}
	return total, nil
}
