package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/avstrong/canchalibre/internal/logger"
)

type source interface {
	Locations(ctx context.Context) (map[string][]string, error)
}

// Catalog caches the region -> localities taxonomy of the court API.
// It starts empty and fills in once the first load finishes.
type Catalog struct {
	mu         sync.RWMutex
	l          *logger.Logger
	src        source
	regions    []string
	localities map[string][]string
	loadedAt   time.Time
}

func NewCatalog(l *logger.Logger, src source) *Catalog {
	//nolint:exhaustruct
	return &Catalog{
		l:          l,
		src:        src,
		localities: make(map[string][]string),
	}
}

func (c *Catalog) Refresh(ctx context.Context) error {
	data, err := c.src.Locations(ctx)
	if err != nil {
		return fmt.Errorf("load locations: %w", err)
	}

	coll := collate.New(language.Spanish)

	regions := make([]string, 0, len(data))
	localities := make(map[string][]string, len(data))

	for region, locs := range data {
		regions = append(regions, region)
		localities[region] = append([]string(nil), locs...)
	}

	coll.SortStrings(regions)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.regions = regions
	c.localities = localities
	c.loadedAt = time.Now().UTC()

	return nil
}

// Run loads the catalog and reloads it every interval until ctx ends.
func (c *Catalog) Run(ctx context.Context, every time.Duration) {
	if err := c.Refresh(ctx); err != nil {
		c.l.LogErrorf("Could not load location catalog: %v", err.Error())
	}

	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.Refresh(ctx); err != nil {
				c.l.LogWarnf("Could not refresh location catalog, keeping previous copy: %v", err.Error())
			}
		}
	}
}

func (c *Catalog) Regions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.regions...)
}

func (c *Catalog) Localities(region string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]string(nil), c.localities[region]...)
}

// Snapshot returns a copy of the whole taxonomy.
func (c *Catalog) Snapshot() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string][]string, len(c.localities))
	for region, locs := range c.localities {
		out[region] = append([]string(nil), locs...)
	}

	return out
}

func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return !c.loadedAt.IsZero()
}
