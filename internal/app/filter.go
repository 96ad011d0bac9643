package app

import (
	"context"

	"pickmydegree/internal/domain"
)

// TogglePhase1Selection drops a surviving degree, remembering its position, or reinstates a
// degree dropped earlier in this phase at that position (clamped to the current pool size).
// Degrees eliminated by other phases cannot be brought back here.
func (e *Engine) TogglePhase1Selection(ctx context.Context, id string) Result {
	if e.state.Phase != domain.PhaseFilter {
		return refused(ErrWrongPhase)
	}

	if idx := domain.IndexOf(e.state.SurvivingDegrees, id); idx >= 0 {
		d := e.state.SurvivingDegrees[idx]
		e.state.SurvivingDegrees = domain.RemoveAt(e.state.SurvivingDegrees, idx)
		e.state.EliminatedDegrees = append(e.state.EliminatedDegrees, d.TaggedAt(idx))
		e.emit(EventDegreesEliminated, DegreesMovedPayload{IDs: []string{id}, Round: domain.RoundFilter})
		e.save(ctx)
		return succeeded()
	}

	for i, d := range e.state.EliminatedDegrees {
		if d.ID == id && d.Round == domain.RoundFilter {
			e.reinstate(i)
			e.save(ctx)
			return succeeded()
		}
	}
	return refused(ErrUnknownDegree)
}

// UndoPhase1 reinstates the most recently dropped degree at its original position.
func (e *Engine) UndoPhase1(ctx context.Context) Result {
	if e.state.Phase != domain.PhaseFilter {
		return refused(ErrWrongPhase)
	}
	last := len(e.state.EliminatedDegrees) - 1
	if last < 0 || e.state.EliminatedDegrees[last].Round != domain.RoundFilter {
		return refused(ErrNothingToUndo)
	}
	e.reinstate(last)
	e.save(ctx)
	return succeeded()
}

// CompletePhase1 closes the filter. A power-of-two pool goes straight to the bracket;
// anything else is reduced first.
func (e *Engine) CompletePhase1(ctx context.Context) Result {
	if e.state.Phase != domain.PhaseFilter {
		return refused(ErrWrongPhase)
	}
	if len(e.state.SurvivingDegrees) < MinSurvivors {
		return Result{Message: "Please keep at least 2 degrees!", Err: ErrTooFewSurvivors}
	}

	if domain.IsPowerOfTwo(len(e.state.SurvivingDegrees)) {
		e.startBracket()
	} else {
		e.startReduction()
	}
	e.save(ctx)
	return succeeded()
}

func (e *Engine) reinstate(eliminatedIdx int) {
	d := e.state.EliminatedDegrees[eliminatedIdx]
	at := len(e.state.SurvivingDegrees)
	if d.EliminatedAtIndex != nil {
		at = min(*d.EliminatedAtIndex, at)
	}
	e.state.EliminatedDegrees = domain.RemoveAt(e.state.EliminatedDegrees, eliminatedIdx)
	e.state.SurvivingDegrees = domain.InsertAt(e.state.SurvivingDegrees, at, d.Untagged())
	e.emit(EventDegreesRestored, DegreesMovedPayload{IDs: []string{d.ID}})
}
