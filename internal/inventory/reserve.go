package inventory

import (
	"context"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// Reservation wraps an inventory store with transactional custody
// semantics: units taken for a session either all make it into the
// session or all go back, and at the end they are either consumed
// (served) or released (canceled).
type Reservation struct {
	store domain.InventoryStore
	log   *logger.Logger
}

// NewReservation creates a reservation adapter over the given store.
func NewReservation(store domain.InventoryStore, log *logger.Logger) *Reservation {
	return &Reservation{store: store, log: log}
}

// Lookup returns the current stack for an item without touching it.
// Slot binding uses this to confirm an item still exists.
func (r *Reservation) Lookup(ctx context.Context, itemID string) (domain.Item, bool) {
	return r.store.Get(ctx, itemID)
}

// ReserveOne detaches a single unit for session custody. A false
// return means the item vanished; the caller decides whether to abort.
func (r *Reservation) ReserveOne(ctx context.Context, itemID string) (domain.ItemUnit, bool) {
	return r.store.TakeOne(ctx, itemID)
}

// ReserveAll reserves one unit per bound slot. If any slot fails
// (typically a race with external removal) every unit already taken in
// this attempt is released back and ok is false. No partial
// reservation ever escapes.
func (r *Reservation) ReserveAll(ctx context.Context, slots []domain.Slot) (units []domain.ItemUnit, ok bool) {
	for _, slot := range slots {
		unit, got := r.store.TakeOne(ctx, slot.ItemID)
		if !got {
			r.log.Warn("reservation race on %s (tag %s), rolling back %d units", slot.ItemID, slot.Tag, len(units))
			r.ReleaseAll(ctx, units)
			return nil, false
		}
		units = append(units, unit)
	}
	return units, true
}

// ReleaseBack returns one reserved unit to the store.
func (r *Reservation) ReleaseBack(ctx context.Context, unit domain.ItemUnit) {
	r.store.MergeBack(ctx, unit)
}

// ReleaseAll returns every given unit to the store. Used on cancel.
func (r *Reservation) ReleaseAll(ctx context.Context, units []domain.ItemUnit) {
	for _, u := range units {
		r.store.MergeBack(ctx, u)
	}
	if len(units) > 0 {
		r.log.Debug("released %d reserved units back to inventory", len(units))
	}
}

// Consume discards reserved units for good: they became a dish, or
// they burned with it. Structurally a no-op; the distinction from
// ReleaseAll is behavioral.
func (r *Reservation) Consume(ctx context.Context, units []domain.ItemUnit) {
	if len(units) > 0 {
		r.log.Debug("consumed %d reserved units", len(units))
	}
}
