package texture

import (
	"image"
	"sync"

	"github.com/ngaut/log"
)

// Resolver resolves a texture name to a decoded image, or nil.
type Resolver interface {
	Resolve(texName string) *image.NRGBA
}

// Cache is a concurrency-safe texture cache. Failed loads are cached too,
// so a missing or corrupt file is only read once per run.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*image.NRGBA
	index *Index
}

// NewCache creates a cache backed by the given index.
func NewCache(index *Index) *Cache {
	return &Cache{
		items: make(map[string]*image.NRGBA),
		index: index,
	}
}

// Resolve loads and caches a texture by name.
func (c *Cache) Resolve(texName string) *image.NRGBA {
	path, ok := c.index.ResolvePath(texName)
	if !ok {
		return nil
	}

	c.mu.RLock()
	img, exists := c.items[path]
	c.mu.RUnlock()
	if exists {
		return img
	}

	img, err := LoadTexture(path)
	if err != nil {
		log.Warnf("%v", err)
	}

	// double-check: another worker may have loaded it meanwhile
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, exists := c.items[path]; exists {
		return prev
	}
	c.items[path] = img
	return img
}

// First returns the first candidate that resolves, and its name.
func First(r Resolver, names []string) (*image.NRGBA, string) {
	if r == nil {
		return nil, ""
	}
	for _, n := range names {
		if img := r.Resolve(n); img != nil {
			return img, n
		}
	}
	return nil, ""
}
