package bot

import (
	"fmt"
	"math/rand"
)

const (
	StrategyFirst            = "first"
	StrategyRandom           = "random"
	StrategyFavoriteCategory = "favorite-category"
)

// NewStrategy creates a strategy by name. favorite is only used by favorite-category.
func NewStrategy(name, favorite string, rng *rand.Rand) (Strategy, error) {
	switch name {
	case StrategyFirst:
		return FirstStrategy{}, nil
	case StrategyRandom, "":
		return &RandomStrategy{Rng: rng}, nil
	case StrategyFavoriteCategory:
		if favorite == "" {
			return nil, fmt.Errorf("strategy %s needs a category", name)
		}
		return &FavoriteCategoryStrategy{Category: favorite, Fallback: &RandomStrategy{Rng: rng}}, nil
	default:
		return nil, fmt.Errorf("unknown bot strategy: %s", name)
	}
}
