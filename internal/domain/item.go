package domain

// TagAny matches every inventory item when used as a slot tag.
const TagAny = "any"

// Item is a stackable inventory entry.
type Item struct {
	ID       string
	Name     string
	Category string
	Rarity   string
	Qty      int
}

// ItemUnit is a detached, quantity-1 snapshot of an item, held in
// session custody between reservation and serve/cancel.
type ItemUnit struct {
	UnitID   string
	ItemID   string
	Name     string
	Category string
	Rarity   string
}

// StackKey identifies the stack a unit merges back into.
type StackKey struct {
	Name     string
	Category string
	Rarity   string
}

// Key returns the merge key for an item.
func (i Item) Key() StackKey {
	return StackKey{Name: i.Name, Category: i.Category, Rarity: i.Rarity}
}

// Key returns the merge key for a detached unit.
func (u ItemUnit) Key() StackKey {
	return StackKey{Name: u.Name, Category: u.Category, Rarity: u.Rarity}
}

// Classifier decides whether an inventory item satisfies an ingredient
// tag. The engine treats it as a black box; implementations may be
// keyword heuristics or anything richer.
type Classifier func(item Item, tag string) bool
