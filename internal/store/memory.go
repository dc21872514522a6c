package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/marine-forecast/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh forecast is available for a beach.
	ErrNotFound = errors.New("no forecast data for beach")
)

// MemoryStore is a concurrency-safe in-memory implementation of a forecast store.
// Only the latest snapshot per beach is kept.
type MemoryStore struct {
	mu sync.RWMutex

	// key: beach key, value: latest snapshot
	data map[string]weather.PointsSnapshot

	maxAge time.Duration // snapshots older than this are treated as missing (0 = unlimited)
	now    func() time.Time
}

// NewMemoryStore creates a new MemoryStore.
// If maxAge is <= 0, snapshots never expire.
func NewMemoryStore(maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:   make(map[string]weather.PointsSnapshot),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// SavePoints replaces the snapshot for a beach.
func (s *MemoryStore) SavePoints(beach weather.Beach, snapshot weather.PointsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[beach.Key()] = snapshot
}

// GetLatest returns the snapshot for a beach if one exists and has not expired.
func (s *MemoryStore) GetLatest(beach weather.Beach) (weather.PointsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[beach.Key()]
	if !ok {
		return weather.PointsSnapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && s.now().Sub(snap.FetchedAt) > s.maxAge {
		return weather.PointsSnapshot{}, ErrNotFound
	}
	return snap, nil
}

// Prune drops expired snapshots and returns how many were removed.
func (s *MemoryStore) Prune() int {
	if s.maxAge <= 0 {
		return 0
	}

	cutoff := s.now().Add(-s.maxAge)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, snap := range s.data {
		if snap.FetchedAt.Before(cutoff) {
			delete(s.data, key)
			removed++
		}
	}
	return removed
}
