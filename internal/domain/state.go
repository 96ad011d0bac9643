package domain

// Phase represents the lifecycle stage of a tournament run.
type Phase string

const (
	// PhaseWelcome is the landing screen; no run is in progress.
	PhaseWelcome Phase = "welcome"
	// PhaseRules shows the rules before a run starts.
	PhaseRules Phase = "rules"
	// PhaseDonate shows the donation page.
	PhaseDonate Phase = "donate"
	// PhaseCategories removes whole categories from the pool.
	PhaseCategories Phase = "categories"
	// PhaseFilter is the manual one-by-one filter.
	PhaseFilter Phase = "phase1"
	// PhaseReduction runs pairwise matches until the pool is a power of two.
	PhaseReduction Phase = "phase2"
	// PhaseBracket is the single-elimination bracket.
	PhaseBracket Phase = "phase3-bracket"
	// PhaseResults holds the winner. Terminal until reset.
	PhaseResults Phase = "results"
)

var validPhases = map[Phase]bool{
	PhaseWelcome:    true,
	PhaseRules:      true,
	PhaseDonate:     true,
	PhaseCategories: true,
	PhaseFilter:     true,
	PhaseReduction:  true,
	PhaseBracket:    true,
	PhaseResults:    true,
}

// Valid reports whether p is one of the recognised phases.
func (p Phase) Valid() bool {
	return validPhases[p]
}

// IsNavigation reports whether p is a pre-game screen that never touches the pool.
func (p Phase) IsNavigation() bool {
	return p == PhaseWelcome || p == PhaseRules || p == PhaseDonate
}

// Match is one head-to-head comparison between two degrees.
type Match struct {
	A Degree `json:"a"`
	B Degree `json:"b"`
}

// Has reports whether the degree id takes part in the match.
func (m Match) Has(id string) bool {
	return m.A.ID == id || m.B.ID == id
}

// Split returns the kept side and the dropped side for keepID.
// ok is false when keepID is not part of the match.
func (m Match) Split(keepID string) (keep, drop Degree, ok bool) {
	switch keepID {
	case m.A.ID:
		return m.A, m.B, true
	case m.B.ID:
		return m.B, m.A, true
	default:
		return Degree{}, Degree{}, false
	}
}

// GameState is the single source of truth for a tournament run.
type GameState struct {
	Phase             Phase    `json:"phase"`
	SurvivingDegrees  []Degree `json:"survivingDegrees"`
	EliminatedDegrees []Degree `json:"eliminatedDegrees"`
	Phase2Queue       []Match  `json:"phase2Queue"`
	Phase2TotalPairs  int      `json:"phase2TotalPairs"`
	BracketQueue      []Match  `json:"bracketQueue"`
	NextRoundQueue    []Degree `json:"nextRoundQueue"`
	CurrentMatch      *Match   `json:"currentMatch"`
	Round             int      `json:"round"`
	Winner            *Degree  `json:"winner"`
	BracketTotal      int      `json:"bracketTotal"`
}

// DefaultState returns the empty welcome state.
func DefaultState() GameState {
	return GameState{
		Phase:             PhaseWelcome,
		SurvivingDegrees:  []Degree{},
		EliminatedDegrees: []Degree{},
		Phase2Queue:       []Match{},
		BracketQueue:      []Match{},
		NextRoundQueue:    []Degree{},
		Round:             1,
	}
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	out := s
	out.SurvivingDegrees = cloneDegrees(s.SurvivingDegrees)
	out.EliminatedDegrees = cloneDegrees(s.EliminatedDegrees)
	out.Phase2Queue = cloneMatches(s.Phase2Queue)
	out.BracketQueue = cloneMatches(s.BracketQueue)
	out.NextRoundQueue = cloneDegrees(s.NextRoundQueue)
	if s.CurrentMatch != nil {
		m := Match{A: s.CurrentMatch.A.Clone(), B: s.CurrentMatch.B.Clone()}
		out.CurrentMatch = &m
	}
	if s.Winner != nil {
		w := s.Winner.Clone()
		out.Winner = &w
	}
	return out
}

// ParticipantIDs lists every degree id held by the state, one entry per placement.
// The winner is not counted separately: it is always also a survivor.
func (s *GameState) ParticipantIDs() []string {
	ids := make([]string, 0, len(s.SurvivingDegrees)+len(s.EliminatedDegrees))
	for _, d := range s.SurvivingDegrees {
		ids = append(ids, d.ID)
	}
	for _, d := range s.EliminatedDegrees {
		ids = append(ids, d.ID)
	}
	for _, d := range s.NextRoundQueue {
		ids = append(ids, d.ID)
	}
	for _, m := range s.Phase2Queue {
		ids = append(ids, m.A.ID, m.B.ID)
	}
	for _, m := range s.BracketQueue {
		ids = append(ids, m.A.ID, m.B.ID)
	}
	if s.CurrentMatch != nil {
		ids = append(ids, s.CurrentMatch.A.ID, s.CurrentMatch.B.ID)
	}
	return ids
}

// Reconcile drops survivors that are also placed elsewhere (eliminated, queued or in the
// current match) and duplicate eliminated entries. Older saves kept survivors listed while
// their matches ran. Returns the number of entries dropped.
func (s *GameState) Reconcile() int {
	placed := make(map[string]bool)
	for _, d := range s.NextRoundQueue {
		placed[d.ID] = true
	}
	for _, m := range s.Phase2Queue {
		placed[m.A.ID], placed[m.B.ID] = true, true
	}
	for _, m := range s.BracketQueue {
		placed[m.A.ID], placed[m.B.ID] = true, true
	}
	if s.CurrentMatch != nil {
		placed[s.CurrentMatch.A.ID], placed[s.CurrentMatch.B.ID] = true, true
	}

	dropped := 0
	eliminated := make([]Degree, 0, len(s.EliminatedDegrees))
	for _, d := range s.EliminatedDegrees {
		if placed[d.ID] {
			dropped++
			continue
		}
		placed[d.ID] = true
		eliminated = append(eliminated, d)
	}
	s.EliminatedDegrees = eliminated

	surviving := make([]Degree, 0, len(s.SurvivingDegrees))
	for _, d := range s.SurvivingDegrees {
		if placed[d.ID] {
			dropped++
			continue
		}
		placed[d.ID] = true
		surviving = append(surviving, d)
	}
	s.SurvivingDegrees = surviving
	return dropped
}

func cloneDegrees(in []Degree) []Degree {
	if in == nil {
		return nil
	}
	out := make([]Degree, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}

func cloneMatches(in []Match) []Match {
	if in == nil {
		return nil
	}
	out := make([]Match, len(in))
	for i, m := range in {
		out[i] = Match{A: m.A.Clone(), B: m.B.Clone()}
	}
	return out
}
