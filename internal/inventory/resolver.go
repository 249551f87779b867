package inventory

import (
	"context"
	"strings"

	"github.com/hammamikhairi/hearthcook/internal/domain"
)

// Matches reports whether an item satisfies an ingredient tag. The
// "any" tag matches everything; otherwise a case-insensitive category
// match or a classifier hit wins. Pure over the item snapshot: it never
// binds anything.
func Matches(item domain.Item, tag string, classify domain.Classifier) bool {
	if tag == domain.TagAny {
		return true
	}
	if strings.EqualFold(item.Category, tag) {
		return true
	}
	if classify != nil && classify(item, tag) {
		return true
	}
	return false
}

// Candidates lists the inventory items that could fill a slot with the
// given tag, in store order. Used to build the pick list when filling a
// slot.
func Candidates(ctx context.Context, store domain.InventoryStore, tag string, classify domain.Classifier) []domain.Item {
	var out []domain.Item
	for _, item := range store.List(ctx) {
		if Matches(item, tag, classify) {
			out = append(out, item)
		}
	}
	return out
}

// KeywordClassifier is the default black-box tag classifier: an item
// matches a tag when the tag appears in its name. Game builds swap in
// something smarter.
func KeywordClassifier(item domain.Item, tag string) bool {
	return strings.Contains(strings.ToLower(item.Name), strings.ToLower(tag))
}
