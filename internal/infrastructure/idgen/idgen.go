// Package idgen assigns temporary ids to entities created while offline.
package idgen

import (
	"sync"
	"time"
)

// OfflineIDGenerator produces negative, strictly decreasing ids for entities
// that have not yet been assigned a real id by the backend. Negative ids keep
// the offline id space disjoint from backend-assigned positive ids, so a later
// server assignment can never collide with a local placeholder.
type OfflineIDGenerator struct {
	mu   sync.Mutex
	last int64
}

// NewOfflineIDGenerator creates a new OfflineIDGenerator.
func NewOfflineIDGenerator() *OfflineIDGenerator {
	return &OfflineIDGenerator{}
}

// NextID returns the next temporary id.
func (g *OfflineIDGenerator) NextID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := -time.Now().UnixMilli()
	if id >= g.last {
		id = g.last - 1
	}
	g.last = id
	return id
}
