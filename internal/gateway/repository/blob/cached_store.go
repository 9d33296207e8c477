package blob

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

const defaultCacheEntries = 1024

// CachedStore fronts another Store with an LRU of object content.
// Reads hit the cache; writes pass through and refresh the entry.
type CachedStore struct {
	inner Store
	cache *lru.Cache[string, []byte]
}

func NewCachedStore(inner Store, entries int) (*CachedStore, error) {
	if entries <= 0 {
		entries = defaultCacheEntries
	}
	cache, err := lru.New[string, []byte](entries)
	if err != nil {
		return nil, err
	}
	return &CachedStore{inner: inner, cache: cache}, nil
}

func (c *CachedStore) Put(ctx context.Context, projectID, name string, content []byte) error {
	if err := c.inner.Put(ctx, projectID, name, content); err != nil {
		return err
	}
	key, err := objectKey(projectID, name)
	if err != nil {
		return err
	}
	c.cache.Add(key, content)
	return nil
}

func (c *CachedStore) Get(ctx context.Context, projectID, name string) ([]byte, error) {
	key, err := objectKey(projectID, name)
	if err != nil {
		return nil, err
	}
	if content, ok := c.cache.Get(key); ok {
		return content, nil
	}
	content, err := c.inner.Get(ctx, projectID, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, content)
	return content, nil
}

func (c *CachedStore) URL(ctx context.Context, projectID, name string) (string, error) {
	return c.inner.URL(ctx, projectID, name)
}
