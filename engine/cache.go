package engine

import (
	"github.com/google/uuid"
)

type cacheKey struct {
	rule     int
	property string
}

// valueCache keeps parsed property values per stylesheet. A reloaded sheet
// carries a fresh identity, so its stale entries simply stop being hit and
// are collected once the old sheet is no longer attached anywhere. Failed
// parses are never cached and so are retried on the next pass.
type valueCache struct {
	sheets map[uuid.UUID]map[cacheKey]any
}

func newValueCache() *valueCache {
	return &valueCache{sheets: make(map[uuid.UUID]map[cacheKey]any)}
}

func (c *valueCache) get(sheet uuid.UUID, rule int, property string) (any, bool) {
	m, ok := c.sheets[sheet]
	if !ok {
		return nil, false
	}
	v, ok := m[cacheKey{rule, property}]
	return v, ok
}

func (c *valueCache) put(sheet uuid.UUID, rule int, property string, v any) {
	m, ok := c.sheets[sheet]
	if !ok {
		m = make(map[cacheKey]any)
		c.sheets[sheet] = m
	}
	m[cacheKey{rule, property}] = v
}

// retain drops cached sheets whose identity is not in the live set.
func (c *valueCache) retain(live map[uuid.UUID]struct{}) {
	for id := range c.sheets {
		if _, ok := live[id]; !ok {
			delete(c.sheets, id)
		}
	}
}

func (c *valueCache) len() int {
	n := 0
	for _, m := range c.sheets {
		n += len(m)
	}
	return n
}
