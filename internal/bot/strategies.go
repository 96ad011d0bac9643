package bot

import (
	"math/rand"

	"pickmydegree/internal/domain"
)

// FirstStrategy always keeps side A.
type FirstStrategy struct{}

func (FirstStrategy) Choose(m domain.Match) string {
	return m.A.ID
}

// RandomStrategy keeps either side with equal probability.
type RandomStrategy struct {
	Rng *rand.Rand
}

func (s *RandomStrategy) Choose(m domain.Match) string {
	if s.Rng.Intn(2) == 1 {
		return m.B.ID
	}
	return m.A.ID
}

// FavoriteCategoryStrategy keeps the degree from Category when exactly one side has it and
// defers to Fallback otherwise.
type FavoriteCategoryStrategy struct {
	Category string
	Fallback Strategy
}

func (s *FavoriteCategoryStrategy) Choose(m domain.Match) string {
	a, b := m.A.Category == s.Category, m.B.Category == s.Category
	switch {
	case a && !b:
		return m.A.ID
	case b && !a:
		return m.B.ID
	}
	return s.Fallback.Choose(m)
}
