// Package storage provides settings persistence implementations and
// the debounced writer that keeps durable state from amplifying rapid
// session mutations.
package storage

import (
	"context"
	"sync"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// Compile-time interface check.
var _ domain.SettingsStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory settings store. Safe for concurrent
// access. Useful for tests and throwaway runs.
type MemoryStore struct {
	mu       sync.RWMutex
	settings domain.Settings
	saves    int
	log      *logger.Logger
}

// NewMemoryStore creates an empty in-memory settings store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{log: log}
}

// Load returns the last saved settings.
func (s *MemoryStore) Load(ctx context.Context) (domain.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSettings(s.settings), nil
}

// Save replaces the stored settings.
func (s *MemoryStore) Save(ctx context.Context, settings domain.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = cloneSettings(settings)
	s.saves++
	s.log.Debug("settings saved (save #%d)", s.saves)
	return nil
}

// SaveCount reports how many saves have landed. Lets tests observe the
// debouncer's coalescing.
func (s *MemoryStore) SaveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func cloneSettings(in domain.Settings) domain.Settings {
	return domain.Settings{
		Session:   in.Session.Clone(),
		Inventory: append([]domain.Item(nil), in.Inventory...),
	}
}
