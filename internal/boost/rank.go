package boost

import (
	"time"

	"github.com/avstrong/canchalibre/internal/booking"
)

// Ranker puts slots of currently featured clubs ahead of the rest.
type Ranker struct {
	now func() time.Time
}

func NewRanker(now func() time.Time) *Ranker {
	if now == nil {
		now = time.Now
	}

	return &Ranker{now: now}
}

// Rank is a stable partition: featured first, input order kept inside each group.
// A slot whose club is not in clubs counts as not featured.
func (r *Ranker) Rank(slots []booking.Slot, clubs []booking.Club) []booking.Listing {
	now := r.now()

	byOwner := make(map[string]booking.Club, len(clubs))
	for _, c := range clubs {
		byOwner[c.OwnerKey] = c
	}

	featured := make([]booking.Listing, 0, len(slots))
	rest := make([]booking.Listing, 0, len(slots))

	for _, s := range slots {
		club, known := byOwner[s.Club]

		l := booking.Listing{
			Slot:          s,
			ClubName:      s.Club,
			Featured:      known && club.CurrentlyFeatured(now),
			DurationLabel: booking.FormatDuration(s.Duration),
		}

		if known {
			l.ClubName = club.DisplayName()
		}

		if l.Featured {
			featured = append(featured, l)

			continue
		}

		rest = append(rest, l)
	}

	return append(featured, rest...)
}
