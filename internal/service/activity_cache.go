package service

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ndewijer/Broker-Report-Importer/internal/model"
)

// ActivityCache keeps the unfiltered, time-ordered activity of recently read
// portfolios. Services that write records invalidate the portfolio they touched.
// All methods are no-ops on a nil *ActivityCache.
type ActivityCache struct {
	entries *cache.Cache
}

// NewActivityCache creates an ActivityCache whose entries expire after ttl.
// A non-positive ttl returns nil, which disables caching.
func NewActivityCache(ttl time.Duration) *ActivityCache {
	if ttl <= 0 {
		return nil
	}
	return &ActivityCache{entries: cache.New(ttl, 2*ttl)}
}

func (c *ActivityCache) get(portfolioID string) ([]model.Activity, bool) {
	if c == nil {
		return nil, false
	}
	v, found := c.entries.Get(portfolioID)
	if !found {
		return nil, false
	}
	activity, ok := v.([]model.Activity)
	return activity, ok
}

func (c *ActivityCache) set(portfolioID string, activity []model.Activity) {
	if c == nil {
		return
	}
	c.entries.SetDefault(portfolioID, activity)
}

// Invalidate drops the cached activity of a portfolio.
func (c *ActivityCache) Invalidate(portfolioID string) {
	if c == nil {
		return
	}
	c.entries.Delete(portfolioID)
}

// Flush drops every cached portfolio. An upload can refresh rows owned by
// portfolios other than its target.
func (c *ActivityCache) Flush() {
	if c == nil {
		return
	}
	c.entries.Flush()
}
