package inmemory

import (
	"time"

	"household-app-go/internal/domain/access"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// HouseholdCache maps public ids to household references with a TTL.
type HouseholdCache struct {
	lru *expirable.LRU[string, access.HouseholdRef]
}

func NewHouseholdCache(size int, ttl time.Duration) *HouseholdCache {
	return &HouseholdCache{lru: expirable.NewLRU[string, access.HouseholdRef](size, nil, ttl)}
}

func (c *HouseholdCache) Get(publicID string) (*access.HouseholdRef, bool) {
	ref, ok := c.lru.Get(publicID)
	if !ok {
		return nil, false
	}
	return &ref, true
}

func (c *HouseholdCache) Set(publicID string, ref *access.HouseholdRef) {
	if ref == nil {
		c.lru.Remove(publicID)
		return
	}
	c.lru.Add(publicID, *ref)
}

func (c *HouseholdCache) Delete(publicID string) {
	c.lru.Remove(publicID)
}

// IdentityCache maps external identity ids to internal user ids with a TTL.
type IdentityCache struct {
	lru *expirable.LRU[string, string]
}

func NewIdentityCache(size int, ttl time.Duration) *IdentityCache {
	return &IdentityCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *IdentityCache) Get(externalID string) (string, bool) {
	return c.lru.Get(externalID)
}

func (c *IdentityCache) Set(externalID, userID string) {
	c.lru.Add(externalID, userID)
}

func (c *IdentityCache) Delete(externalID string) {
	c.lru.Remove(externalID)
}
