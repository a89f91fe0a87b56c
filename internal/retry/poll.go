package retry

import (
	"context"
	"time"
)

// Policy bounds a poll: at most Attempts probes, Interval apart.
type Policy struct {
	Attempts int
	Interval time.Duration
}

func (p Policy) attempts() int {
	if p.Attempts < 1 {
		return 1
	}

	return p.Attempts
}

// Poll calls probe until it reports true or the attempts run out. It returns
// found=false, nil when exhausted, and the context error when ctx ends first.
func Poll(ctx context.Context, p Policy, probe func(context.Context) bool) (bool, error) {
	n := p.attempts()

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		if probe(ctx) {
			return true, nil
		}

		if i == n-1 {
			break
		}

		timer := time.NewTimer(p.Interval)

		select {
		case <-ctx.Done():
			timer.Stop()

			return false, ctx.Err()
		case <-timer.C:
		}
	}

	return false, nil
}
