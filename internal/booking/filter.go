package booking

import (
	"time"
)

// Filter keeps the slots that match c, are not booked and do not start before now.
// Slot dates and times are read in now's location. The result is never nil, so
// an empty search can be told apart from one that has not run.
func Filter(slots []Slot, c Criteria, now time.Time) []Slot {
	sport := NormalizeText(c.Sport)
	out := make([]Slot, 0, len(slots))

	for _, s := range slots {
		if NormalizeText(s.Sport) != sport {
			continue
		}

		if s.Date != c.Date {
			continue
		}

		if c.Time != "" && s.Time != c.Time {
			continue
		}

		if s.Booked() {
			continue
		}

		if c.Club != "" && s.Club != c.Club {
			continue
		}

		start, err := s.Start(now.Location())
		if err != nil || start.Before(now) {
			continue
		}

		out = append(out, s)
	}

	return out
}
