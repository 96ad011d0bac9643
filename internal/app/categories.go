package app

import (
	"context"

	"pickmydegree/internal/domain"
)

// RemoveCategory eliminates every surviving degree of the category. It does nothing outside
// the categories phase or when no survivor matches.
func (e *Engine) RemoveCategory(ctx context.Context, category string) {
	if e.state.Phase != domain.PhaseCategories {
		return
	}

	keep := make([]domain.Degree, 0, len(e.state.SurvivingDegrees))
	var removed []domain.Degree
	for _, d := range e.state.SurvivingDegrees {
		if d.Category == category {
			removed = append(removed, d.Tagged(domain.RoundCategories))
			continue
		}
		keep = append(keep, d)
	}
	if len(removed) == 0 {
		return
	}

	e.state.SurvivingDegrees = keep
	e.state.EliminatedDegrees = append(e.state.EliminatedDegrees, removed...)
	e.emit(EventDegreesEliminated, DegreesMovedPayload{IDs: degreeIDs(removed), Round: domain.RoundCategories})
	e.save(ctx)
}

// RestoreCategory moves every degree removed with the category back to the end of the pool.
func (e *Engine) RestoreCategory(ctx context.Context, category string) Result {
	if e.state.Phase != domain.PhaseCategories {
		return refused(ErrWrongPhase)
	}

	keep := make([]domain.Degree, 0, len(e.state.EliminatedDegrees))
	var restored []domain.Degree
	for _, d := range e.state.EliminatedDegrees {
		if d.Round == domain.RoundCategories && d.Category == category {
			restored = append(restored, d.Untagged())
			continue
		}
		keep = append(keep, d)
	}
	if len(restored) == 0 {
		return refused(ErrNothingToRestore)
	}

	e.state.EliminatedDegrees = keep
	e.state.SurvivingDegrees = append(e.state.SurvivingDegrees, restored...)
	e.emit(EventDegreesRestored, DegreesMovedPayload{IDs: degreeIDs(restored)})
	e.save(ctx)
	return succeeded()
}

// CompleteCategories opens the manual filter once at least MinSurvivors degrees remain.
func (e *Engine) CompleteCategories(ctx context.Context) Result {
	if e.state.Phase != domain.PhaseCategories {
		return refused(ErrWrongPhase)
	}
	if len(e.state.SurvivingDegrees) < MinSurvivors {
		return Result{Message: "Keep at least 2 degrees (or one category).", Err: ErrTooFewSurvivors}
	}
	e.setPhase(domain.PhaseFilter)
	e.save(ctx)
	return succeeded()
}
