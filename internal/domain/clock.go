package domain

import "fmt"

// Clock is a time of day expressed as minutes since midnight.
type Clock int

// ParseClock parses "HH:MM" into a Clock.
func ParseClock(s string) (Clock, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// TimeWindow is a [Start, End) slice of a single delivery date.
type TimeWindow struct {
	Start Clock
	End   Clock
}

// Minutes returns the window duration.
func (w TimeWindow) Minutes() int { return int(w.End - w.Start) }

// Overlaps reports whether two windows share at least one minute.
// Windows that only touch at a boundary (one ends exactly when the
// other starts) do not overlap.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start < other.End && other.Start < w.End
}
