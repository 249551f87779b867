package catalog

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/hearthcook/internal/domain"
)

// recipeFile is the on-disk shape of a recipe pack.
type recipeFile struct {
	Recipes []recipeEntry `yaml:"recipes"`
}

// Durations are Go duration strings ("90s", "3m").
type recipeEntry struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Stations    []string `yaml:"stations"`
	Duration    string   `yaml:"duration"`
	BurnGrace   string   `yaml:"burn_grace"`
	Ingredients []string `yaml:"ingredients"`
	StirEvery   string   `yaml:"stir_every"`
	Tags        []string `yaml:"tags"`
}

// LoadFile reads a YAML recipe pack and registers every recipe in it.
// Entries with a duplicate ID overwrite built-ins, which is how game
// data patches tune the defaults.
func (r *Registry) LoadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading recipe pack: %w", err)
	}

	var file recipeFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, fmt.Errorf("parsing recipe pack %s: %w", path, err)
	}

	loaded := 0
	for _, e := range file.Recipes {
		rec, err := e.toRecipe()
		if err != nil {
			r.log.Warn("skipping recipe %q in %s: %v", e.ID, path, err)
			continue
		}
		r.add(rec)
		loaded++
	}

	r.log.Info("loaded %d recipes from %s", loaded, path)
	return loaded, nil
}

// toRecipe validates and converts a file entry into a domain recipe.
func (e recipeEntry) toRecipe() (*domain.Recipe, error) {
	if e.ID == "" || e.Name == "" {
		return nil, fmt.Errorf("missing id or name")
	}

	duration, err := time.ParseDuration(e.Duration)
	if err != nil {
		return nil, fmt.Errorf("bad duration: %w", err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("non-positive duration %s", duration)
	}

	grace, err := parseOptionalDuration(e.BurnGrace)
	if err != nil {
		return nil, fmt.Errorf("bad burn_grace: %w", err)
	}
	stirEvery, err := parseOptionalDuration(e.StirEvery)
	if err != nil {
		return nil, fmt.Errorf("bad stir_every: %w", err)
	}

	stations := make([]domain.StationID, 0, len(e.Stations))
	for _, s := range e.Stations {
		stations = append(stations, domain.StationID(s))
	}

	return &domain.Recipe{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Stations:    stations,
		Duration:    duration,
		BurnGrace:   grace,
		Ingredients: e.Ingredients,
		StirEvery:   stirEvery,
		Tags:        e.Tags,
	}, nil
}

func parseOptionalDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}
