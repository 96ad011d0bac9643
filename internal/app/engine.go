package app

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"pickmydegree/internal/domain"
	"pickmydegree/internal/ports"
	"pickmydegree/internal/snapshot"
)

var (
	ErrWrongPhase       = errors.New("not allowed in the current phase")
	ErrTooFewSurvivors  = errors.New("keep at least 2 degrees")
	ErrNothingToRestore = errors.New("no removed degrees in that category")
	ErrNothingToUndo    = errors.New("nothing to undo")
	ErrNoCurrentMatch   = errors.New("no match awaiting a decision")
	ErrNotInMatch       = errors.New("degree is not part of the current match")
	ErrUnknownDegree    = errors.New("degree not found")
)

// Result reports the outcome of an operation that can be refused.
// A refused operation leaves the state untouched.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Err     error  `json:"-"`
}

func succeeded() Result {
	return Result{Success: true}
}

func refused(err error) Result {
	return Result{Message: err.Error(), Err: err}
}

// Engine owns one GameState and is its only mutator. Every mutation is followed by a save
// through the StateStore. An Engine is not safe for concurrent use; one session owns it.
type Engine struct {
	store   ports.StateStore
	catalog []domain.Degree
	rng     *rand.Rand
	state   domain.GameState
	events  []Event
}

// NewEngine constructs an Engine over the given catalog. rng may be nil to use a
// time-seeded default.
func NewEngine(store ports.StateStore, catalog []domain.Degree, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if store == nil {
		store = discardStore{}
	}
	items := make([]domain.Degree, len(catalog))
	for i, d := range catalog {
		items[i] = d.Untagged()
	}
	return &Engine{
		store:   store,
		catalog: items,
		rng:     rng,
		state:   domain.DefaultState(),
	}
}

// State returns a snapshot of the current state.
func (e *Engine) State() domain.GameState {
	return e.state.Clone()
}

// DrainEvents returns the events emitted since the last drain.
func (e *Engine) DrainEvents() []Event {
	out := e.events
	e.events = nil
	return out
}

// Init restores the saved state when it validates, then repairs an interrupted bracket.
// Anything unreadable leaves the default state in place.
func (e *Engine) Init(ctx context.Context) {
	blob, present := e.store.Load(ctx)
	if !present {
		return
	}
	restored, ok := snapshot.Decode(blob)
	if !ok {
		return
	}

	filled := restored.Phase == domain.PhaseResults && restored.Winner == nil
	if !settleWinner(restored) {
		return
	}
	e.state = *restored
	dropped := e.state.Reconcile()
	e.emit(EventStateRestored, StateRestoredPayload{Phase: e.state.Phase, Dropped: dropped})

	repaired := false
	if e.state.Phase == domain.PhaseBracket {
		repaired = e.repairBracket()
	}
	if dropped > 0 || repaired || filled {
		e.save(ctx)
	}
}

// settleWinner keeps a winner only in the results phase. A results save without one takes
// its single survivor; with any other pool the save is unusable.
func settleWinner(s *domain.GameState) bool {
	if s.Phase != domain.PhaseResults {
		s.Winner = nil
		return true
	}
	if s.Winner != nil {
		return true
	}
	if len(s.SurvivingDegrees) != 1 {
		return false
	}
	w := s.SurvivingDegrees[0].Clone()
	s.Winner = &w
	return true
}

// ResetGame clears storage and returns to the welcome screen with an empty pool.
func (e *Engine) ResetGame(ctx context.Context) {
	e.store.Clear(ctx)
	e.state = domain.DefaultState()
	e.emit(EventGameReset, nil)
	e.save(ctx)
}

// GoToRules shows the rules. Only reachable from the navigation screens.
func (e *Engine) GoToRules(ctx context.Context) {
	e.navigate(ctx, domain.PhaseRules)
}

// GoToWelcome returns to the welcome screen. Only reachable from the navigation screens.
func (e *Engine) GoToWelcome(ctx context.Context) {
	e.navigate(ctx, domain.PhaseWelcome)
}

// GoToDonate shows the donation page. Only reachable from the navigation screens.
func (e *Engine) GoToDonate(ctx context.Context) {
	e.navigate(ctx, domain.PhaseDonate)
}

func (e *Engine) navigate(ctx context.Context, to domain.Phase) {
	if !e.state.Phase.IsNavigation() || e.state.Phase == to {
		return
	}
	e.setPhase(to)
	e.save(ctx)
}

// StartNewGame copies the catalog, shuffles it and opens the categories phase.
func (e *Engine) StartNewGame(ctx context.Context) {
	pool := make([]domain.Degree, len(e.catalog))
	for i, d := range e.catalog {
		pool[i] = d.Clone()
	}
	e.shuffle(pool)

	from := e.state.Phase
	e.state = domain.DefaultState()
	e.state.Phase = from
	e.state.SurvivingDegrees = pool
	e.setPhase(domain.PhaseCategories)
	e.save(ctx)
}

// Winner returns the decided winner, if any.
func (e *Engine) Winner() (domain.Degree, bool) {
	if e.state.Phase != domain.PhaseResults || e.state.Winner == nil {
		return domain.Degree{}, false
	}
	return e.state.Winner.Clone(), true
}

func (e *Engine) setPhase(to domain.Phase) {
	from := e.state.Phase
	e.state.Phase = to
	if from != to {
		e.emit(EventPhaseChanged, PhaseChangedPayload{From: from, To: to})
	}
}

func (e *Engine) save(ctx context.Context) {
	blob, err := snapshot.Encode(e.state)
	if err != nil {
		return
	}
	e.store.Save(ctx, blob)
}

func (e *Engine) emit(kind EventKind, payload any) {
	e.events = append(e.events, Event{Kind: kind, Payload: payload})
}

func (e *Engine) shuffle(degrees []domain.Degree) {
	e.rng.Shuffle(len(degrees), func(i, j int) { degrees[i], degrees[j] = degrees[j], degrees[i] })
}

func degreeIDs(degrees []domain.Degree) []string {
	out := make([]string, len(degrees))
	for i, d := range degrees {
		out[i] = d.ID
	}
	return out
}

type discardStore struct{}

func (discardStore) Load(context.Context) ([]byte, bool) { return nil, false }
func (discardStore) Save(context.Context, []byte)        {}
func (discardStore) Clear(context.Context)               {}
