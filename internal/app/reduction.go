package app

import (
	"context"

	"pickmydegree/internal/domain"
)

// startReduction schedules the fewest matches that bring the pool down to the largest power
// of two: n - 2^floor(log2 n) matches, everyone else gets a bye.
func (e *Engine) startReduction() {
	pool := e.state.SurvivingDegrees
	target := domain.LargestPowerOfTwo(len(pool))
	players := 2 * (len(pool) - target)
	e.shuffle(pool)

	matches, _ := domain.PairUp(pool[:players])
	byes := make([]domain.Degree, len(pool)-players)
	copy(byes, pool[players:])

	e.state.SurvivingDegrees = []domain.Degree{}
	e.state.Phase2Queue = matches
	e.state.Phase2TotalPairs = len(matches)
	e.state.NextRoundQueue = byes
	e.state.CurrentMatch = nil
	e.state.Round = 1
	e.setPhase(domain.PhaseReduction)
	e.nextReductionMatch()
}

func (e *Engine) nextReductionMatch() {
	if len(e.state.Phase2Queue) == 0 {
		e.state.SurvivingDegrees = e.state.NextRoundQueue
		e.state.NextRoundQueue = []domain.Degree{}
		e.startBracket()
		return
	}
	current := e.state.Phase2Queue[0]
	e.state.Phase2Queue = e.state.Phase2Queue[1:]
	e.state.CurrentMatch = &current
}

// ResolvePhase2Match keeps keepID, eliminates the other side and moves to the next match.
// The bracket starts once the last match is resolved.
func (e *Engine) ResolvePhase2Match(ctx context.Context, keepID string) Result {
	if e.state.Phase != domain.PhaseReduction {
		return refused(ErrWrongPhase)
	}
	if e.state.CurrentMatch == nil {
		return refused(ErrNoCurrentMatch)
	}
	keep, drop, ok := e.state.CurrentMatch.Split(keepID)
	if !ok {
		return refused(ErrNotInMatch)
	}

	e.state.NextRoundQueue = append(e.state.NextRoundQueue, keep)
	e.state.EliminatedDegrees = append(e.state.EliminatedDegrees, drop.Tagged(domain.RoundReduction))
	e.state.CurrentMatch = nil
	e.emit(EventMatchResolved, MatchResolvedPayload{Phase: domain.PhaseReduction, Round: e.state.Round, KeptID: keep.ID, DroppedID: drop.ID})
	e.nextReductionMatch()
	e.save(ctx)
	return succeeded()
}

// ResolvePhase2MatchRandomly keeps either side with equal probability and returns the kept
// degree.
func (e *Engine) ResolvePhase2MatchRandomly(ctx context.Context) (domain.Degree, Result) {
	if e.state.Phase != domain.PhaseReduction {
		return domain.Degree{}, refused(ErrWrongPhase)
	}
	if e.state.CurrentMatch == nil {
		return domain.Degree{}, refused(ErrNoCurrentMatch)
	}
	keep := e.state.CurrentMatch.A
	if e.rng.Intn(2) == 1 {
		keep = e.state.CurrentMatch.B
	}
	keep = keep.Clone()
	return keep, e.ResolvePhase2Match(ctx, keep.ID)
}
