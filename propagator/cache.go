package propagator

import (
	cmap "github.com/orcaman/concurrent-map/v2"
)

// ResponseCache memoises the scalar response g by lag step count on a
// uniform time grid. Safe for concurrent use; concurrent fills of the same
// lag store the same value.
type ResponseCache struct {
	responses cmap.ConcurrentMap[int, float64]
}

func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		responses: cmap.NewWithCustomShardingFunction[int, float64](shardSteps),
	}
}

// shardSteps spreads consecutive step counts over consecutive shards.
func shardSteps(steps int) uint32 { return uint32(steps) }

func (c *ResponseCache) Get(steps int) (float64, bool) {
	return c.responses.Get(steps)
}

func (c *ResponseCache) Set(steps int, g float64) {
	c.responses.SetIfAbsent(steps, g)
}

// Fetch returns the cached response for steps, computing and storing it
// on a miss.
func (c *ResponseCache) Fetch(steps int, compute func() (float64, error)) (g float64, err error) {
	var (
		ok bool
	)
	if g, ok = c.Get(steps); ok {
		return
	}
	if g, err = compute(); err != nil {
		return
	}
	c.Set(steps, g)
	return
}

func (c *ResponseCache) Len() int { return c.responses.Count() }
