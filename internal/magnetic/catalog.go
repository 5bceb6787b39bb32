package magnetic

import (
	"context"
	"maps"
	"sync"
)

// RegionSource loads the full region catalog.
type RegionSource interface {
	FetchRegions(ctx context.Context) (map[string]Region, bool, error)
}

// Catalog caches the region catalog for the process lifetime after the first
// successful download. Failed or non-2xx downloads are not cached.
type Catalog struct {
	src RegionSource

	mu      sync.Mutex
	regions map[string]Region
	loaded  bool
}

func NewCatalog(src RegionSource) *Catalog {
	return &Catalog{src: src}
}

// Regions returns a copy of the catalog, downloading it on first use.
// The lock is not held during the download, so a slow upstream only delays
// callers whose ctx allows it.
func (c *Catalog) Regions(ctx context.Context) (map[string]Region, error) {
	c.mu.Lock()
	if c.loaded {
		regions := maps.Clone(c.regions)
		c.mu.Unlock()
		return regions, nil
	}
	c.mu.Unlock()

	regions, found, err := c.src.FetchRegions(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		return map[string]Region{}, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.regions, c.loaded = regions, true
	}
	return maps.Clone(c.regions), nil
}

// Lookup returns the region for code. Unknown codes are reported as not found.
func (c *Catalog) Lookup(ctx context.Context, code string) (Region, bool, error) {
	regions, err := c.Regions(ctx)
	if err != nil {
		return Region{}, false, err
	}
	r, ok := regions[code]
	return r, ok, nil
}

// Invalidate drops the cached catalog; the next call downloads it again.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.regions, c.loaded = nil, false
}
