// Package domain defines the core types and interfaces for the cooking
// session engine. All other packages depend on domain; domain depends
// on nothing.
package domain

import "time"

// StationID identifies a cooking station in the world.
type StationID string

// Built-in stations. Recipes list which of these they tolerate.
const (
	StationStove    StationID = "stove"
	StationOven     StationID = "oven"
	StationOpenFire StationID = "open-fire"
)

// Recipe is an immutable, catalog-defined cooking recipe.
type Recipe struct {
	ID          string
	Name        string
	Description string
	// Stations is the set of stations this recipe can be cooked at.
	// Cooking elsewhere is a mistake, not a hard failure.
	Stations []StationID
	// Duration is the nominal cook time before heat modifiers.
	Duration time.Duration
	// BurnGrace is the extra time past Duration before the result is ruined.
	BurnGrace time.Duration
	// Ingredients is the ordered list of slot tags. One inventory unit
	// must be bound per slot before the session can start.
	Ingredients []string
	// StirEvery is the recurring window within which the cook must stir.
	// Zero means the recipe needs no attention.
	StirEvery time.Duration
	Tags      []string
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// AllowsStation reports whether the recipe tolerates the given station.
func (r *Recipe) AllowsStation(station StationID) bool {
	for _, s := range r.Stations {
		if s == station {
			return true
		}
	}
	return false
}

// HeatLevel modifies how fast and how forgiving a cook is.
type HeatLevel int

const (
	HeatLow HeatLevel = iota
	HeatMed
	HeatHigh
)

// String returns a human-readable heat level.
func (h HeatLevel) String() string {
	switch h {
	case HeatLow:
		return "low"
	case HeatMed:
		return "med"
	case HeatHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ParseHeatLevel maps a user-supplied word to a heat level.
// Unknown words fall back to medium.
func ParseHeatLevel(s string) HeatLevel {
	switch s {
	case "low":
		return HeatLow
	case "high":
		return HeatHigh
	default:
		return HeatMed
	}
}

// Modifiers returns the duration and grace scale factors for the heat
// level. High heat cooks faster but is less forgiving; low heat is the
// opposite; medium is unscaled.
func (h HeatLevel) Modifiers() (duration, grace float64) {
	switch h {
	case HeatHigh:
		return 0.9, 0.6
	case HeatLow:
		return 1.15, 1.2
	default:
		return 1.0, 1.0
	}
}
