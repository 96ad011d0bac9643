package bot

import (
	"context"
	"fmt"

	"pickmydegree/internal/domain"
)

// Agent represents an automatic player.
type Agent struct {
	Name     string
	Strategy Strategy
}

// Outcome summarizes a finished run.
type Outcome struct {
	Winner  domain.Degree
	Matches int
	Rounds  int
}

// PlayOut drives the engine from its current phase to a result. Navigation screens start a
// new run; the categories and filter phases are closed without removing anything.
func (a *Agent) PlayOut(ctx context.Context, d Driver) (Outcome, error) {
	var out Outcome
	// Every step moves at least one degree, so the pool size bounds the loop.
	initial := d.State()
	limit := 4*len(initial.ParticipantIDs()) + 8

	for step := 0; step < limit; step++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		st := d.State()
		switch {
		case st.Phase == domain.PhaseResults:
			if st.Winner == nil {
				return out, fmt.Errorf("results phase without a winner")
			}
			out.Winner = *st.Winner
			out.Rounds = st.Round
			return out, nil
		case st.Phase.IsNavigation():
			d.StartNewGame(ctx)
			fresh := d.State()
			limit = 4*len(fresh.ParticipantIDs()) + 8
		case st.Phase == domain.PhaseCategories:
			if res := d.CompleteCategories(ctx); !res.Success {
				return out, fmt.Errorf("%s: complete categories: %w", a.Name, res.Err)
			}
		case st.Phase == domain.PhaseFilter:
			if res := d.CompletePhase1(ctx); !res.Success {
				return out, fmt.Errorf("%s: complete filter: %w", a.Name, res.Err)
			}
		case st.CurrentMatch == nil:
			return out, fmt.Errorf("%s: no match to play in phase %s", a.Name, st.Phase)
		case st.Phase == domain.PhaseReduction:
			if res := d.ResolvePhase2Match(ctx, a.Strategy.Choose(*st.CurrentMatch)); !res.Success {
				return out, fmt.Errorf("%s: reduction match: %w", a.Name, res.Err)
			}
			out.Matches++
		case st.Phase == domain.PhaseBracket:
			if res := d.ResolveBracketMatch(ctx, a.Strategy.Choose(*st.CurrentMatch)); !res.Success {
				return out, fmt.Errorf("%s: bracket match: %w", a.Name, res.Err)
			}
			out.Matches++
		default:
			return out, fmt.Errorf("%s: unexpected phase %s", a.Name, st.Phase)
		}
	}
	return out, fmt.Errorf("%s: run did not finish", a.Name)
}
