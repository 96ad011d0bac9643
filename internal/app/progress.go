package app

import "pickmydegree/internal/domain"

// Progress holds the counters a client shows next to the current match.
type Progress struct {
	Phase      domain.Phase `json:"phase"`
	Surviving  int          `json:"surviving"`
	Eliminated int          `json:"eliminated"`

	// Reduction phase.
	PairNumber int `json:"pairNumber,omitempty"`
	TotalPairs int `json:"totalPairs,omitempty"`

	// Bracket phase.
	Round              int `json:"round,omitempty"`
	TotalRounds        int `json:"totalRounds,omitempty"`
	MatchesInRound     int `json:"matchesInRound,omitempty"`
	MatchNumberInRound int `json:"matchNumberInRound,omitempty"`

	// MatchesToGo counts the queued matches of the phase or round, current match included.
	MatchesToGo int `json:"matchesToGo,omitempty"`
}

// Progress computes the progress counters for the current state.
func (e *Engine) Progress() Progress {
	s := &e.state
	p := Progress{
		Phase:      s.Phase,
		Surviving:  len(s.SurvivingDegrees),
		Eliminated: len(s.EliminatedDegrees),
	}
	current := 0
	if s.CurrentMatch != nil {
		current = 1
	}

	switch s.Phase {
	case domain.PhaseReduction:
		p.TotalPairs = s.Phase2TotalPairs
		p.MatchesToGo = len(s.Phase2Queue) + current
		p.PairNumber = s.Phase2TotalPairs - p.MatchesToGo + 1
	case domain.PhaseBracket:
		p.Round = s.Round
		p.TotalRounds = domain.Log2(s.BracketTotal)
		p.MatchesToGo = len(s.BracketQueue) + current
		if s.Round >= 1 && s.Round <= p.TotalRounds {
			p.MatchesInRound = s.BracketTotal >> s.Round
		}
		if p.MatchesInRound < p.MatchesToGo {
			p.MatchesInRound = p.MatchesToGo
		}
		p.MatchNumberInRound = p.MatchesInRound - p.MatchesToGo + 1
	case domain.PhaseResults:
		p.Round = s.Round
		p.TotalRounds = domain.Log2(s.BracketTotal)
	}
	return p
}
