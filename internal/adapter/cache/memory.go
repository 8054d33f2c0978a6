package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/mcpmessenger/shine-skincare-app-sub009/internal/domain"
)

// Memory is an in-process AnalysisCache used when no redis URL is
// configured. Entries expire lazily on read.
type Memory struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[string]memoryEntry
	now func() time.Time
}

type memoryEntry struct {
	a       domain.Analysis
	expires time.Time
}

// NewMemory builds an in-process cache with the given TTL. A zero TTL
// keeps entries for the life of the process.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, m: make(map[string]memoryEntry), now: time.Now}
}

func (c *Memory) Put(ctx domain.Context, a domain.Analysis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := memoryEntry{a: a}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.m[a.ID] = e
	return nil
}

func (c *Memory) Get(ctx domain.Context, id string) (domain.Analysis, error) {
	c.mu.RLock()
	e, ok := c.m[id]
	c.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && c.now().After(e.expires)) {
		return domain.Analysis{}, fmt.Errorf("%w: analysis %q", domain.ErrNotFound, id)
	}
	return e.a, nil
}
