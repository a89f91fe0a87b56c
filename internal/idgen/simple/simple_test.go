package simple

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIDUnique(t *testing.T) {
	g := New("s-")
	ctx := context.Background()

	first, err := g.NextID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s-1", first)

	var (
		mu   sync.Mutex
		seen = map[string]bool{first: true}
		wg   sync.WaitGroup
	)

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			id, err := g.NextID(ctx)
			assert.NoError(t, err)

			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Len(t, seen, 51)
}
