package app

import (
	"context"

	"pickmydegree/internal/domain"
)

// startBracket seeds a single-elimination bracket from the surviving pool, which is a
// power of two >= 2 by construction.
func (e *Engine) startBracket() {
	entrants := e.state.SurvivingDegrees
	e.shuffle(entrants)
	matches, leftover := domain.PairUp(entrants)

	e.state.BracketTotal = len(entrants)
	e.state.SurvivingDegrees = []domain.Degree{}
	e.state.BracketQueue = matches
	e.state.NextRoundQueue = append([]domain.Degree{}, leftover...)
	e.state.CurrentMatch = nil
	e.state.Round = 1
	e.setPhase(domain.PhaseBracket)
	e.emit(EventRoundStarted, RoundStartedPayload{Round: 1, Matches: len(matches)})
	e.nextBracketMatch()
}

// nextBracketMatch pops the next match, opening a new round from the winners (in the order
// they won, no reshuffle) or declaring the winner when one degree is left.
func (e *Engine) nextBracketMatch() {
	if len(e.state.BracketQueue) == 0 {
		next := e.state.NextRoundQueue
		switch {
		case len(next) == 1:
			e.declareWinner(next[0])
			return
		case len(next) == 0:
			return
		}

		e.state.Round++
		matches, leftover := domain.PairUp(next)
		e.state.BracketQueue = matches
		e.state.NextRoundQueue = append([]domain.Degree{}, leftover...)
		e.emit(EventRoundStarted, RoundStartedPayload{Round: e.state.Round, Matches: len(matches)})
	}

	current := e.state.BracketQueue[0]
	e.state.BracketQueue = e.state.BracketQueue[1:]
	e.state.CurrentMatch = &current
}

func (e *Engine) declareWinner(w domain.Degree) {
	winner := w.Clone()
	e.state.Winner = &winner
	e.state.SurvivingDegrees = []domain.Degree{w}
	e.state.NextRoundQueue = []domain.Degree{}
	e.state.CurrentMatch = nil
	e.setPhase(domain.PhaseResults)
	e.emit(EventWinnerDecided, WinnerDecidedPayload{WinnerID: w.ID, Rounds: e.state.Round})
}

// ResolveBracketMatch advances winnerID and eliminates the other side, tagged with the
// current round.
func (e *Engine) ResolveBracketMatch(ctx context.Context, winnerID string) Result {
	if e.state.Phase != domain.PhaseBracket {
		return refused(ErrWrongPhase)
	}
	if e.state.CurrentMatch == nil {
		return refused(ErrNoCurrentMatch)
	}
	winner, loser, ok := e.state.CurrentMatch.Split(winnerID)
	if !ok {
		return refused(ErrNotInMatch)
	}

	e.state.NextRoundQueue = append(e.state.NextRoundQueue, winner)
	e.state.EliminatedDegrees = append(e.state.EliminatedDegrees, loser.Tagged(domain.BracketRound(e.state.Round)))
	e.state.CurrentMatch = nil
	e.emit(EventMatchResolved, MatchResolvedPayload{Phase: domain.PhaseBracket, Round: e.state.Round, KeptID: winner.ID, DroppedID: loser.ID})
	e.nextBracketMatch()
	e.save(ctx)
	return succeeded()
}

// RepairBracketState rebuilds the match queue of a bracket that has neither a current
// match nor queued matches, as left by an interrupted save. It reports whether anything
// was rebuilt. Fewer than 2 participants is left unrepaired.
func (e *Engine) RepairBracketState(ctx context.Context) bool {
	if !e.repairBracket() {
		return false
	}
	e.save(ctx)
	return true
}

func (e *Engine) repairBracket() bool {
	s := &e.state
	if s.Phase != domain.PhaseBracket || s.CurrentMatch != nil || len(s.BracketQueue) > 0 {
		return false
	}

	source, from := s.NextRoundQueue, "next_round_queue"
	if len(source) == 0 {
		source, from = s.SurvivingDegrees, "surviving"
	}
	if len(source) < 2 {
		// TODO: decide whether a lone participant should be declared the winner here.
		return false
	}

	switch from {
	case "surviving":
		if s.BracketTotal < 2 {
			s.BracketTotal = ceilPowerOfTwo(len(source))
		}
		s.Round = max(s.Round, 1)
		s.SurvivingDegrees = []domain.Degree{}
	default:
		s.Round = max(s.Round, 1)
		if s.BracketTotal < 2 {
			// Without a recorded size the holding queue is taken as the field of the current round.
			s.BracketTotal = ceilPowerOfTwo(len(source) << (s.Round - 1))
		} else if len(source) == s.BracketTotal>>s.Round {
			// A full set of winners for the recorded round means that round is over.
			s.Round++
		}
	}

	matches, leftover := domain.PairUp(source)
	s.BracketQueue = matches
	s.NextRoundQueue = append([]domain.Degree{}, leftover...)
	current := s.BracketQueue[0]
	s.BracketQueue = s.BracketQueue[1:]
	s.CurrentMatch = &current
	e.emit(EventStateRepaired, StateRepairedPayload{Round: s.Round, Source: from, Matches: len(matches)})
	return true
}

func ceilPowerOfTwo(n int) int {
	p := domain.LargestPowerOfTwo(n)
	if p < n {
		p <<= 1
	}
	return p
}
