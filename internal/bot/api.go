package bot

import (
	"context"

	"pickmydegree/internal/app"
	"pickmydegree/internal/domain"
)

// Strategy is the interface that all bot strategies must implement.
// Choose returns the id of the degree to keep; it must be one side of the match.
type Strategy interface {
	Choose(match domain.Match) string
}

// Driver is the part of the engine a bot needs to play a run.
type Driver interface {
	State() domain.GameState
	StartNewGame(ctx context.Context)
	CompleteCategories(ctx context.Context) app.Result
	CompletePhase1(ctx context.Context) app.Result
	ResolvePhase2Match(ctx context.Context, keepID string) app.Result
	ResolveBracketMatch(ctx context.Context, winnerID string) app.Result
}

var _ Driver = (*app.Engine)(nil)
