package bot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"pickmydegree/internal/app"
	"pickmydegree/internal/domain"
)

func testCatalog(n int) []domain.Degree {
	categories := []string{"STEM", "Arts", "Health"}
	out := make([]domain.Degree, n)
	for i := range out {
		out[i] = domain.Degree{ID: fmt.Sprintf("d%02d", i), Category: categories[i%len(categories)]}
	}
	return out
}

func TestPlayOutFromWelcome(t *testing.T) {
	for _, n := range []int{2, 3, 5, 8, 13, 24} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(n)))
			e := app.NewEngine(nil, testCatalog(n), rng)
			agent := &Agent{Name: "sim", Strategy: &RandomStrategy{Rng: rng}}

			out, err := agent.PlayOut(context.Background(), e)
			if err != nil {
				t.Fatalf("PlayOut: %v", err)
			}
			// Every degree but the winner loses exactly one match.
			if out.Matches != n-1 {
				t.Fatalf("played %d matches, want %d", out.Matches, n-1)
			}
			st := e.State()
			if st.Phase != domain.PhaseResults || st.Winner.ID != out.Winner.ID {
				t.Fatalf("phase=%s winner=%v outcome=%s", st.Phase, st.Winner, out.Winner.ID)
			}
			if len(st.EliminatedDegrees) != n-1 || len(st.SurvivingDegrees) != 1 {
				t.Fatalf("eliminated=%d surviving=%d", len(st.EliminatedDegrees), len(st.SurvivingDegrees))
			}
			if out.Rounds != domain.Log2(domain.LargestPowerOfTwo(n)) {
				t.Fatalf("rounds = %d", out.Rounds)
			}
		})
	}
}

func TestPlayOutFavoriteCategoryWins(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	e := app.NewEngine(nil, testCatalog(12), rng)
	agent := &Agent{Name: "fan", Strategy: &FavoriteCategoryStrategy{Category: "Arts", Fallback: FirstStrategy{}}}

	out, err := agent.PlayOut(context.Background(), e)
	if err != nil {
		t.Fatalf("PlayOut: %v", err)
	}
	if out.Winner.Category != "Arts" {
		t.Fatalf("winner %s is from %s", out.Winner.ID, out.Winner.Category)
	}
}

func TestPlayOutReturnsExistingWinner(t *testing.T) {
	ctx := context.Background()
	e := app.NewEngine(nil, testCatalog(4), rand.New(rand.NewSource(1)))
	agent := &Agent{Name: "a", Strategy: FirstStrategy{}}
	first, err := agent.PlayOut(ctx, e)
	if err != nil {
		t.Fatalf("PlayOut: %v", err)
	}
	again, err := agent.PlayOut(ctx, e)
	if err != nil || again.Winner.ID != first.Winner.ID || again.Matches != 0 {
		t.Fatalf("second PlayOut = %+v, %v", again, err)
	}
}

type foreignStrategy struct{}

func (foreignStrategy) Choose(domain.Match) string { return "nobody" }

func TestPlayOutSurfacesRefusals(t *testing.T) {
	e := app.NewEngine(nil, testCatalog(4), rand.New(rand.NewSource(1)))
	agent := &Agent{Name: "bad", Strategy: foreignStrategy{}}
	_, err := agent.PlayOut(context.Background(), e)
	if !errors.Is(err, app.ErrNotInMatch) {
		t.Fatalf("err = %v, want ErrNotInMatch", err)
	}
}

func TestPlayOutHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := app.NewEngine(nil, testCatalog(4), rand.New(rand.NewSource(1)))
	agent := &Agent{Name: "a", Strategy: FirstStrategy{}}
	if _, err := agent.PlayOut(ctx, e); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}
