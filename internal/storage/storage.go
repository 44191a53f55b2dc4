package storage

import (
	"sync"

	"github.com/CadenFinley/web-scraper/internal/models"
)

// HymnStore is the run's merged hymn list. Workers append one finished hymnal at a time.
type HymnStore struct {
	hymns   []models.Hymn
	hymnals []string
	mu      sync.RWMutex
}

func New() *HymnStore {
	return &HymnStore{}
}

// Append adds a hymnal's complete batch in completion order.
func (s *HymnStore) Append(code string, hymns []models.Hymn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hymns = append(s.hymns, hymns...)
	s.hymnals = append(s.hymnals, code)
}

// All returns a copy of every hymn appended so far.
func (s *HymnStore) All() []models.Hymn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Hymn, len(s.hymns))
	copy(result, s.hymns)
	return result
}

// Hymnals returns the codes in the order their batches were appended.
func (s *HymnStore) Hymnals() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.hymnals...)
}

func (s *HymnStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hymns)
}
