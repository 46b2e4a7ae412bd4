// Package lru caches reference lookups in memory with
// hashicorp/golang-lru.
package lru

import (
	"context"

	"github.com/fwojciec/scddb"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultReferenceCacheSize fits every set type, dance type and format
// seen on the source site with room to spare.
const DefaultReferenceCacheSize = 256

// Ensure ReferenceCache implements scddb.ReferenceService.
var _ scddb.ReferenceService = (*ReferenceCache)(nil)

type referenceKey struct {
	kind scddb.ReferenceKind
	name string
}

// ReferenceCache remembers the IDs returned by FindOrCreateReference so that
// importing many dances of the same type does not hit the store each time.
// Listings are always read from the wrapped service.
type ReferenceCache struct {
	next  scddb.ReferenceService
	cache *lru.Cache[referenceKey, int64]
}

// NewReferenceCache wraps next with a cache of size entries.
func NewReferenceCache(next scddb.ReferenceService, size int) (*ReferenceCache, error) {
	if size <= 0 {
		size = DefaultReferenceCacheSize
	}
	cache, err := lru.New[referenceKey, int64](size)
	if err != nil {
		return nil, err
	}
	return &ReferenceCache{next: next, cache: cache}, nil
}

// FindOrCreateReference implements scddb.ReferenceService.
func (c *ReferenceCache) FindOrCreateReference(ctx context.Context, kind scddb.ReferenceKind, name string) (int64, error) {
	key := referenceKey{kind: kind, name: name}
	if id, ok := c.cache.Get(key); ok {
		return id, nil
	}
	id, err := c.next.FindOrCreateReference(ctx, kind, name)
	if err != nil {
		return 0, err
	}
	c.cache.Add(key, id)
	return id, nil
}

// FindReferences implements scddb.ReferenceService.
func (c *ReferenceCache) FindReferences(ctx context.Context, kind scddb.ReferenceKind) ([]*scddb.Reference, error) {
	return c.next.FindReferences(ctx, kind)
}

// Len returns the number of cached lookups.
func (c *ReferenceCache) Len() int {
	return c.cache.Len()
}
