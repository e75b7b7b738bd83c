package engine

import (
	"sync"
	"time"

	"github.com/julianstephens/habitkit/internal/models"
	"github.com/julianstephens/habitkit/internal/utils"
)

type cacheKey struct {
	habitID string
	day     string
}

// VerdictCache memoizes day verdicts keyed by (habit, day). Its lifetime is
// explicit: the caller constructs it, passes it where needed, and calls
// Invalidate after any write to the habit's completions or patterns. There
// is no ambient global cache.
type VerdictCache struct {
	mu      sync.RWMutex
	entries map[cacheKey]models.DayVerdict
}

// NewVerdictCache creates an empty verdict cache.
func NewVerdictCache() *VerdictCache {
	return &VerdictCache{entries: make(map[cacheKey]models.DayVerdict)}
}

// Verdict returns the memoized verdict for the snapshot's habit on the given
// date, computing and storing it on first use. Because Verdict on a snapshot
// is pure, a cached entry is identical to a recomputed one until the
// underlying data changes, at which point the caller must invalidate.
func (c *VerdictCache) Verdict(s *Snapshot, date time.Time) models.DayVerdict {
	key := cacheKey{habitID: s.Habit.ID, day: utils.FormatDay(date)}

	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = s.Verdict(date)

	c.mu.Lock()
	c.entries[key] = v
	c.mu.Unlock()
	return v
}

// Invalidate drops every cached verdict for one habit.
func (c *VerdictCache) Invalidate(habitID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.habitID == habitID {
			delete(c.entries, key)
		}
	}
}

// InvalidateAll drops every cached verdict.
func (c *VerdictCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[cacheKey]models.DayVerdict)
}
