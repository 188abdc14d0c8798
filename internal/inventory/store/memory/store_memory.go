// Package memory provides the in-memory request store and snapshot cache
// used by unit tests and single-node development runs.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"lifeline/internal/inventory/models"
	id "lifeline/pkg/domain"
)

// Store keeps blood requests in a map guarded by a RWMutex.
type Store struct {
	mu       sync.RWMutex
	requests map[id.RequestID]*models.BloodRequest
}

// New constructs an empty in-memory request store.
func New() *Store {
	return &Store{requests: make(map[id.RequestID]*models.BloodRequest)}
}

func (s *Store) Create(_ context.Context, request *models.BloodRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *request
	s.requests[request.ID] = &cp
	return nil
}

func (s *Store) OpenUnits(_ context.Context, bloodGroup id.BloodGroup, district string, now time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := 0
	for _, request := range s.requests {
		if request.BloodGroup != bloodGroup {
			continue
		}
		if district != "" && !strings.EqualFold(request.District, district) {
			continue
		}
		if request.Open(now) {
			units += request.UnitsRequired
		}
	}
	return units, nil
}

// SnapshotCache is an in-process ports.SnapshotCache for tests. Entries
// expire lazily on read.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	snapshot models.Snapshot
	expires  time.Time
}

// NewSnapshotCache constructs an empty in-memory snapshot cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{entries: make(map[string]cacheEntry)}
}

func (c *SnapshotCache) Get(_ context.Context, key string) (*models.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expires) {
		delete(c.entries, key)
		return nil, nil
	}
	cp := entry.snapshot
	return &cp, nil
}

func (c *SnapshotCache) Set(_ context.Context, key string, snapshot *models.Snapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{snapshot: *snapshot, expires: time.Now().Add(ttl)}
	return nil
}
