package catalog

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestCacheGet(t *testing.T) {
	c := NewCache(writeTempCatalog(t))

	first, err := c.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, first.Len())

	second, err := c.Get()
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestCacheConcurrentGet(t *testing.T) {
	c := NewCache(writeTempCatalog(t))

	const goroutines = 16
	results := make([]*Catalog, goroutines)

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cat, err := c.Get()
			assert.NoError(t, err)
			results[i] = cat
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestCacheGetError(t *testing.T) {
	c := NewCache(filepath.Join(t.TempDir(), "missing.csv"))

	_, err := c.Get()
	require.Error(t, err)

	// A failed load does not poison the cache; a later Get retries.
	_, err = c.Get()
	require.Error(t, err)
}
