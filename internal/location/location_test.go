package location

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avstrong/canchalibre/internal/logger"
	"github.com/avstrong/canchalibre/internal/retry"
)

type fakeSource struct {
	data map[string][]string
	err  error
}

func (f *fakeSource) Locations(context.Context) (map[string][]string, error) {
	return f.data, f.err
}

func TestCatalogRefreshSortsRegions(t *testing.T) {
	c := NewCatalog(logger.Discard(), &fakeSource{data: map[string][]string{
		"Río Negro":    {"Bariloche"},
		"Buenos Aires": {"La Plata", "Mar del Plata"},
		"Córdoba":      {"Villa María"},
		"CABA":         {"Palermo"},
	}})

	assert.False(t, c.Ready())
	require.NoError(t, c.Refresh(context.Background()))
	assert.True(t, c.Ready())

	assert.Equal(t, []string{"Buenos Aires", "CABA", "Córdoba", "Río Negro"}, c.Regions())
	assert.Equal(t, []string{"La Plata", "Mar del Plata"}, c.Localities("Buenos Aires"))
	assert.Empty(t, c.Localities("Salta"))
}

func TestCatalogRefreshKeepsPreviousOnError(t *testing.T) {
	src := &fakeSource{data: map[string][]string{"CABA": {"Palermo"}}}
	c := NewCatalog(logger.Discard(), src)
	require.NoError(t, c.Refresh(context.Background()))

	src.err = errors.New("boom")
	require.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, []string{"CABA"}, c.Regions())
}

// lateOptions exposes regions only after a number of reads, like a select filling in.
type lateOptions struct {
	mu         sync.Mutex
	reads      int
	readyAfter int
	localities map[string][]string
}

func (o *lateOptions) Regions() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.reads++
	if o.reads <= o.readyAfter {
		return nil
	}

	out := make([]string, 0, len(o.localities))
	for r := range o.localities {
		out = append(out, r)
	}

	return out
}

func (o *lateOptions) Localities(region string) []string {
	return o.localities[region]
}

var fast = retry.Policy{Attempts: 5, Interval: time.Millisecond}

func TestAutocompleteWaitsForOptions(t *testing.T) {
	opts := &lateOptions{readyAfter: 2, localities: map[string][]string{
		"Buenos Aires": {"La Plata"},
	}}

	m, err := NewAutocompleter(opts, fast, fast).Autocomplete(context.Background(), "buenos aires", "LA PLATA")
	require.NoError(t, err)

	assert.Equal(t, Match{Region: "Buenos Aires", Locality: "La Plata", RegionFound: true, LocalityFound: true}, m)
}

func TestAutocompleteGivesUpSilently(t *testing.T) {
	opts := &lateOptions{readyAfter: 100}

	m, err := NewAutocompleter(opts, fast, fast).Autocomplete(context.Background(), "CABA", "Palermo")
	require.NoError(t, err)
	assert.False(t, m.RegionFound)
	assert.False(t, m.LocalityFound)
}

func TestAutocompleteUnknownLocality(t *testing.T) {
	opts := &lateOptions{localities: map[string][]string{"CABA": {"Palermo"}}}

	m, err := NewAutocompleter(opts, fast, fast).Autocomplete(context.Background(), "CABA", "Belgrano")
	require.NoError(t, err)
	assert.True(t, m.RegionFound)
	assert.False(t, m.LocalityFound)
	assert.Empty(t, m.Locality)
}

func TestAutocompleteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAutocompleter(&lateOptions{}, fast, fast).Autocomplete(ctx, "CABA", "Palermo")
	require.ErrorIs(t, err, context.Canceled)
}
