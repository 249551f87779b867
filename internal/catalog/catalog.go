// Package catalog provides recipe registry implementations.
package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*Registry)(nil)

// Registry holds recipes in memory. Safe for concurrent reads. Recipes
// are loaded once and never mutated at runtime.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewRegistry creates a registry preloaded with the built-in recipes.
func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	r.seed()
	return r
}

// List returns summaries of all available recipes, sorted by name.
func (r *Registry) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	r.log.Debug("listing all recipes, count=%d", len(r.recipes))

	out := make([]domain.RecipeSummary, 0, len(r.recipes))
	for _, rec := range r.recipes {
		out = append(out, domain.RecipeSummary{
			ID:          rec.ID,
			Name:        rec.Name,
			Description: rec.Description,
			Tags:        rec.Tags,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Get returns a recipe by ID. A miss is domain.ErrNotFound, which
// callers treat as a no-op rather than a fault.
func (r *Registry) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recipes[id]
	if !ok {
		r.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// add registers a recipe, overwriting any existing one with the same ID.
func (r *Registry) add(rec *domain.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recipes[rec.ID] = rec
}

// seed populates the registry with built-in recipes.
func (r *Registry) seed() {
	recipes := []*domain.Recipe{
		r.heartyStew(),
		r.campfireRoast(),
		r.forestPorridge(),
	}
	for _, rec := range recipes {
		r.recipes[rec.ID] = rec
	}
	r.log.Debug("seeded %d recipes", len(recipes))
}

func (r *Registry) heartyStew() *domain.Recipe {
	return &domain.Recipe{
		ID:          "hearty-stew",
		Name:        "Hearty Stew",
		Description: "Slow-simmered stew. Needs regular stirring or the bottom catches.",
		Stations:    []domain.StationID{domain.StationStove},
		Duration:    3 * time.Minute,
		BurnGrace:   45 * time.Second,
		Ingredients: []string{"meat", "vegetable", "herb"},
		StirEvery:   30 * time.Second,
		Tags:        []string{"stew", "warm", "filling"},
	}
}

func (r *Registry) campfireRoast() *domain.Recipe {
	return &domain.Recipe{
		ID:          "campfire-roast",
		Name:        "Campfire Roast",
		Description: "Meat on a spit. Forgiving, as long as you don't wander off for too long.",
		Stations:    []domain.StationID{domain.StationOpenFire},
		Duration:    2 * time.Minute,
		BurnGrace:   30 * time.Second,
		Ingredients: []string{"meat", "any"},
		StirEvery:   0, // spit turns itself
		Tags:        []string{"roast", "camp"},
	}
}

func (r *Registry) forestPorridge() *domain.Recipe {
	return &domain.Recipe{
		ID:          "forest-porridge",
		Name:        "Forest Porridge",
		Description: "Grain and whatever the woods gave you. Burns the instant you stop watching.",
		Stations:    []domain.StationID{domain.StationStove, domain.StationOpenFire},
		Duration:    90 * time.Second,
		BurnGrace:   15 * time.Second,
		Ingredients: []string{"grain", "vegetable"},
		StirEvery:   20 * time.Second,
		Tags:        []string{"breakfast", "cheap"},
	}
}
