package session

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/hearthcook/internal/domain"
)

// Status-effect strength per quality tier. Game-balance numbers, not
// structural.
var dishEffects = map[domain.Quality]struct {
	potency int
	lasts   time.Duration
}{
	domain.QualityPerfect: {potency: 3, lasts: 10 * time.Minute},
	domain.QualityOK:      {potency: 2, lasts: 6 * time.Minute},
	domain.QualityRough:   {potency: 1, lasts: 3 * time.Minute},
	domain.QualityRuined:  {potency: 0, lasts: 0},
}

// resolveDish derives the one artifact a served session produces.
// Quality comes purely from the mistake count; the text lists what was
// consumed. Burned sessions never reach here, they can only be
// canceled.
func resolveDish(recipeName string, sess *domain.Session, at time.Time) *domain.Dish {
	quality := domain.QualityFor(sess.Mistakes)
	effect := dishEffects[quality]

	names := make([]string, 0, len(sess.Reserved))
	for _, u := range sess.Reserved {
		names = append(names, u.Name)
	}

	return &domain.Dish{
		Name:        fmt.Sprintf("%s (%s)", recipeName, quality),
		Description: fmt.Sprintf("%s made from %s. %s", recipeName, joinNames(names), qualityRemark(quality)),
		Quality:     quality,
		Potency:     effect.potency,
		EffectFor:   effect.lasts,
		MadeFrom:    names,
		ServedAt:    at,
	}
}

// qualityRemark returns the flavour line for a tier.
func qualityRemark(q domain.Quality) string {
	switch q {
	case domain.QualityPerfect:
		return "Cooked exactly right."
	case domain.QualityOK:
		return "A little uneven, but good."
	case domain.QualityRough:
		return "Edible. Barely."
	default:
		return "Best not to ask."
	}
}

// joinNames joins ingredient names into a spoken-style list.
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "nothing at all"
	case 1:
		return names[0]
	}
	out := ""
	for i, n := range names {
		switch {
		case i == 0:
			out = n
		case i == len(names)-1:
			out += " and " + n
		default:
			out += ", " + n
		}
	}
	return out
}
