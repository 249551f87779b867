package domain

import "context"

// RecipeSource provides recipes. Implementations can be in-memory
// (hardcoded), file-based, or anything else read-only at runtime.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, id string) (*Recipe, error)
}

// InventoryStore holds stackable items. TakeOne and MergeBack are the
// primitives the reservation adapter builds its transactional custody
// on; several simpler crafting flows use them too.
type InventoryStore interface {
	// TakeOne detaches a single unit from a stack, removing the stack if
	// it was a singleton. Returns false if the item no longer exists;
	// callers must treat that as a recoverable missing-ingredient
	// condition, never a fault.
	TakeOne(ctx context.Context, itemID string) (ItemUnit, bool)
	// MergeBack folds a detached unit into an existing stack with the
	// same (name, category, rarity), or appends a fresh singleton.
	MergeBack(ctx context.Context, unit ItemUnit)
	// Append adds a whole stack, merging with an existing one if present.
	Append(ctx context.Context, item Item)
	Get(ctx context.Context, itemID string) (Item, bool)
	List(ctx context.Context) []Item
}

// Settings is the persisted slice of world state the engine owns.
type Settings struct {
	Session   *Session `json:"session,omitempty"`
	Inventory []Item   `json:"inventory,omitempty"`
}

// SettingsStore persists the engine's settings. Implementations must
// fail soft: a broken store degrades durability, never session state.
type SettingsStore interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}

// Notifier delivers session events to the outside world. Fire and
// forget: failures must not affect session state.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
