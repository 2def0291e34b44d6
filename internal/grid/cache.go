package grid

import (
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"studycal/internal/model"
)

type cacheKey struct {
	mode      model.ViewMode
	day       string
	loc       string
	weekStart time.Weekday
}

// Cache memoises Build results. A nil *Cache builds without caching.
type Cache struct {
	entries *lru.Cache[cacheKey, Grid]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, Grid](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Build returns the grid for (ref, mode, weekStart), computing it on a miss.
// The returned slices are copies and may be modified by the caller.
func (c *Cache) Build(ref time.Time, mode model.ViewMode, weekStart time.Weekday) Grid {
	if c == nil {
		return Build(ref, mode, weekStart)
	}

	key := cacheKey{
		mode:      mode,
		day:       model.FormatDate(ref),
		loc:       ref.Location().String(),
		weekStart: weekStart,
	}
	g, ok := c.entries.Get(key)
	if !ok {
		g = Build(ref, mode, weekStart)
		c.entries.Add(key, g)
	}

	g.Days = slices.Clone(g.Days)
	g.Hours = slices.Clone(g.Hours)
	return g
}

// Len reports the number of cached grids.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
