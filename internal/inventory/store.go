// Package inventory provides the stackable item store, the ingredient
// tag matcher, and the transactional reservation adapter the session
// engine holds its ingredients through.
package inventory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// Compile-time interface check.
var _ domain.InventoryStore = (*MemoryStore)(nil)

// MemoryStore is an in-memory item store. Safe for concurrent access.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]*domain.Item
	log   *logger.Logger
}

// NewMemoryStore creates an empty in-memory item store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*domain.Item),
		log:   log,
	}
}

// TakeOne detaches a single unit from the stack with the given ID.
// A singleton stack is removed entirely. Returns false if the item is
// gone; callers treat that as a recoverable missing-ingredient case.
func (s *MemoryStore) TakeOne(ctx context.Context, itemID string) (domain.ItemUnit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok || item.Qty <= 0 {
		s.log.Debug("take-one miss: %s", itemID)
		return domain.ItemUnit{}, false
	}

	unit := domain.ItemUnit{
		UnitID:   uuid.NewString(),
		ItemID:   item.ID,
		Name:     item.Name,
		Category: item.Category,
		Rarity:   item.Rarity,
	}

	item.Qty--
	if item.Qty == 0 {
		delete(s.items, itemID)
	}

	s.log.Debug("took one %s (%s), %d left", item.Name, itemID, item.Qty)
	return unit, true
}

// MergeBack folds a detached unit into an existing stack with the same
// (name, category, rarity), or appends a new singleton stack.
func (s *MemoryStore) MergeBack(ctx context.Context, unit domain.ItemUnit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := unit.Key()
	for _, item := range s.items {
		if item.Key() == key {
			item.Qty++
			s.log.Debug("merged %s back into stack %s, qty=%d", unit.Name, item.ID, item.Qty)
			return
		}
	}

	id := unit.ItemID
	if _, taken := s.items[id]; taken || id == "" {
		id = uuid.NewString()
	}
	s.items[id] = &domain.Item{
		ID:       id,
		Name:     unit.Name,
		Category: unit.Category,
		Rarity:   unit.Rarity,
		Qty:      1,
	}
	s.log.Debug("merged %s back as new stack %s", unit.Name, id)
}

// Append adds a whole stack, merging with an existing one if a stack
// with the same key is already present.
func (s *MemoryStore) Append(ctx context.Context, item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Qty <= 0 {
		return
	}

	key := item.Key()
	for _, existing := range s.items {
		if existing.Key() == key {
			existing.Qty += item.Qty
			s.log.Debug("appended %d %s onto stack %s, qty=%d", item.Qty, item.Name, existing.ID, existing.Qty)
			return
		}
	}

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	cp := item
	s.items[item.ID] = &cp
	s.log.Debug("appended new stack %s (%s x%d)", item.ID, item.Name, item.Qty)
}

// Get returns a copy of the stack with the given ID.
func (s *MemoryStore) Get(ctx context.Context, itemID string) (domain.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[itemID]
	if !ok {
		return domain.Item{}, false
	}
	return *item, true
}

// List returns copies of all stacks, sorted by name for stable output.
func (s *MemoryStore) List(ctx context.Context) []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Item, 0, len(s.items))
	for _, item := range s.items {
		out = append(out, *item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// TotalQty sums the quantity of every stack matching the given key.
// Used by the round-trip conservation checks around cancel.
func (s *MemoryStore) TotalQty(ctx context.Context, key domain.StackKey) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		if item.Key() == key {
			total += item.Qty
		}
	}
	return total
}
