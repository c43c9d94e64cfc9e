package catalog

import (
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache loads a catalog lazily on first access and serves the same immutable
// instance for the process lifetime. Concurrent first accesses share a single
// load via singleflight, so readers can never observe divergent catalogs.
type Cache struct {
	path   string
	loaded atomic.Pointer[Catalog]
	group  singleflight.Group
}

// NewCache creates a cache for the catalog file at path. The file is not
// touched until Get is called.
func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Get returns the cached catalog, loading it on first call.
func (c *Cache) Get() (*Catalog, error) {
	if cat := c.loaded.Load(); cat != nil {
		return cat, nil
	}

	v, err, _ := c.group.Do("catalog", func() (any, error) {
		if cat := c.loaded.Load(); cat != nil {
			return cat, nil
		}
		cat, err := LoadFile(c.path)
		if err != nil {
			return nil, err
		}
		c.loaded.Store(cat)
		zap.L().Info("catalog loaded",
			zap.String("path", c.path),
			zap.Int("products", cat.Len()),
		)
		return cat, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Catalog), nil
}
