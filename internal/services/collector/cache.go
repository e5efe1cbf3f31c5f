package collector

import (
	"sort"
	"sync"

	"github.com/LeonardoBeccarini/smartbin/internal/model"
)

// Cache holds the newest reading per bin.
type Cache struct {
	mu     sync.RWMutex
	latest map[string]model.BinStatus
}

func NewCache() *Cache {
	return &Cache{latest: make(map[string]model.BinStatus)}
}

// Put stores st unless a newer reading of the same bin is already cached.
func (c *Cache) Put(st model.BinStatus) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.latest[st.BinID]; ok && cur.Timestamp.After(st.Timestamp) {
		return false
	}
	c.latest[st.BinID] = st
	return true
}

func (c *Cache) Get(binID string) (model.BinStatus, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st, ok := c.latest[binID]
	return st, ok
}

// Snapshot returns a copy sorted by bin id.
func (c *Cache) Snapshot() []model.BinStatus {
	c.mu.RLock()
	out := make([]model.BinStatus, 0, len(c.latest))
	for _, st := range c.latest {
		out = append(out, st)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].BinID < out[j].BinID })
	return out
}
