package location

import (
	"context"
	"strings"

	"github.com/avstrong/canchalibre/internal/retry"
)

type options interface {
	Regions() []string
	Localities(region string) []string
}

// Match is the outcome of an autocomplete. Names are the catalog's own spelling.
type Match struct {
	Region        string
	Locality      string
	RegionFound   bool
	LocalityFound bool
}

// Autocompleter picks catalog options for a detected region and locality.
// Options may still be loading, so each lookup polls within a bounded policy.
type Autocompleter struct {
	opts     options
	regions  retry.Policy
	locality retry.Policy
}

func NewAutocompleter(opts options, regions, locality retry.Policy) *Autocompleter {
	return &Autocompleter{
		opts:     opts,
		regions:  regions,
		locality: locality,
	}
}

// Autocomplete never fails for a missing match; only a cancelled ctx is an error.
func (a *Autocompleter) Autocomplete(ctx context.Context, region, locality string) (Match, error) {
	var m Match

	loaded, err := retry.Poll(ctx, a.regions, func(context.Context) bool {
		return len(a.opts.Regions()) > 0
	})
	if err != nil || !loaded {
		return m, err
	}

	m.Region, m.RegionFound = pick(a.opts.Regions(), region)
	if !m.RegionFound {
		return m, nil
	}

	_, err = retry.Poll(ctx, a.locality, func(context.Context) bool {
		m.Locality, m.LocalityFound = pick(a.opts.Localities(m.Region), locality)

		return m.LocalityFound
	})

	return m, err
}

func pick(options []string, want string) (string, bool) {
	want = strings.TrimSpace(want)
	if want == "" {
		return "", false
	}

	for _, opt := range options {
		if strings.EqualFold(opt, want) {
			return opt, true
		}
	}

	return "", false
}
