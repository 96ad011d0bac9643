package app

import (
	"context"
	"math/rand"
	"testing"

	"pickmydegree/internal/domain"
	"pickmydegree/internal/snapshot"
)

func storeWith(t *testing.T, st domain.GameState) *memStore {
	t.Helper()
	blob, err := snapshot.Encode(st)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &memStore{blob: blob, present: true}
}

func TestInitWithoutSaveKeepsDefault(t *testing.T) {
	store := &memStore{}
	e := NewEngine(store, testCatalog(4), rand.New(rand.NewSource(1)))
	e.Init(context.Background())

	if e.State().Phase != domain.PhaseWelcome {
		t.Fatalf("phase = %s, want welcome", e.State().Phase)
	}
	if store.saves != 0 {
		t.Fatalf("Init without a save should not write")
	}
}

func TestInitRejectsMalformedBlobs(t *testing.T) {
	blobs := map[string]string{
		"not json":       `{{{`,
		"unknown phase":  `{"phase":"not-a-real-phase","survivingDegrees":[],"eliminatedDegrees":[]}`,
		"missing lists":  `{"phase":"phase1"}`,
		"surviving type": `{"phase":"phase1","survivingDegrees":{},"eliminatedDegrees":[]}`,
		"array root":     `[1,2,3]`,
	}
	for name, blob := range blobs {
		t.Run(name, func(t *testing.T) {
			store := &memStore{blob: []byte(blob), present: true}
			e := NewEngine(store, testCatalog(4), rand.New(rand.NewSource(1)))
			e.Init(context.Background())
			if st := e.State(); st.Phase != domain.PhaseWelcome || len(st.SurvivingDegrees) != 0 {
				t.Fatalf("malformed blob restored state: %+v", st)
			}
		})
	}
}

func TestInitRestoresMidGame(t *testing.T) {
	ctx := context.Background()
	src, store := newTestEngine(12, 8)
	filterTo(t, src, 6)
	src.CompletePhase1(ctx)
	want := src.State()

	e := NewEngine(store, testCatalog(12), rand.New(rand.NewSource(99)))
	saves := store.saves
	e.Init(ctx)

	got := e.State()
	if got.Phase != domain.PhaseReduction || got.CurrentMatch == nil || got.CurrentMatch.A.ID != want.CurrentMatch.A.ID {
		t.Fatalf("restored %+v, want %+v", got, want)
	}
	if store.saves != saves {
		t.Fatalf("clean restore should not write")
	}
	assertConserved(t, e, 12)
}

func TestInitDropsDuplicatedSurvivors(t *testing.T) {
	cat := testCatalog(4)
	st := domain.DefaultState()
	st.Phase = domain.PhaseReduction
	st.SurvivingDegrees = append([]domain.Degree{}, cat[:3]...)
	st.CurrentMatch = &domain.Match{A: cat[0], B: cat[1]}
	st.NextRoundQueue = []domain.Degree{cat[2]}
	st.EliminatedDegrees = []domain.Degree{cat[3].Tagged(domain.RoundFilter)}
	st.Phase2TotalPairs = 1
	store := storeWith(t, st)

	e := NewEngine(store, cat, rand.New(rand.NewSource(1)))
	e.Init(context.Background())

	if len(e.state.SurvivingDegrees) != 0 {
		t.Fatalf("survivors not reconciled: %v", degreeIDs(e.state.SurvivingDegrees))
	}
	assertConserved(t, e, 4)
	if store.saves != 1 {
		t.Fatalf("reconciled state should be saved once, saves = %d", store.saves)
	}
}

func TestInitClearsStrayWinner(t *testing.T) {
	cat := testCatalog(4)
	st := domain.DefaultState()
	st.Phase = domain.PhaseFilter
	st.SurvivingDegrees = cat
	w := cat[0]
	st.Winner = &w

	e := NewEngine(storeWith(t, st), cat, rand.New(rand.NewSource(1)))
	e.Init(context.Background())
	if e.state.Winner != nil {
		t.Fatalf("winner kept outside results phase")
	}
	if _, ok := e.Winner(); ok {
		t.Fatalf("Winner() reported a winner in phase1")
	}
}

func TestInitRepairsInterruptedFinal(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(4)
	st := domain.DefaultState()
	st.Phase = domain.PhaseBracket
	st.BracketTotal = 4
	st.Round = 1
	st.NextRoundQueue = []domain.Degree{cat[0], cat[2]}
	st.EliminatedDegrees = []domain.Degree{cat[1].Tagged(domain.BracketRound(1)), cat[3].Tagged(domain.BracketRound(1))}
	store := storeWith(t, st)

	e := NewEngine(store, cat, rand.New(rand.NewSource(1)))
	e.Init(ctx)

	if e.state.Round != 2 {
		t.Fatalf("round = %d, want 2", e.state.Round)
	}
	m := e.state.CurrentMatch
	if m == nil || m.A.ID != cat[0].ID || m.B.ID != cat[2].ID {
		t.Fatalf("final not rebuilt: %+v", m)
	}
	if len(e.state.NextRoundQueue) != 0 || len(e.state.BracketQueue) != 0 {
		t.Fatalf("queues not consumed: next=%d bracket=%d", len(e.state.NextRoundQueue), len(e.state.BracketQueue))
	}
	if store.saves != 1 {
		t.Fatalf("repaired state should be saved, saves = %d", store.saves)
	}
	assertConserved(t, e, 4)

	if res := e.ResolveBracketMatch(ctx, cat[2].ID); !res.Success {
		t.Fatalf("final failed: %s", res.Message)
	}
	if w, ok := e.Winner(); !ok || w.ID != cat[2].ID {
		t.Fatalf("winner = %+v, want %s", w, cat[2].ID)
	}
}

func TestRepairFromSurvivors(t *testing.T) {
	cat := testCatalog(8)
	st := domain.DefaultState()
	st.Phase = domain.PhaseBracket
	st.SurvivingDegrees = append([]domain.Degree{}, cat...)

	e := NewEngine(storeWith(t, st), cat, rand.New(rand.NewSource(1)))
	e.Init(context.Background())

	if e.state.BracketTotal != 8 || e.state.Round != 1 {
		t.Fatalf("bracketTotal=%d round=%d", e.state.BracketTotal, e.state.Round)
	}
	if e.state.CurrentMatch == nil || len(e.state.BracketQueue) != 3 || len(e.state.SurvivingDegrees) != 0 {
		t.Fatalf("bracket not rebuilt from survivors")
	}
	assertConserved(t, e, 8)
}

func TestRepairLeavesHealthyOrDegenerateBracket(t *testing.T) {
	ctx := context.Background()
	e, store := newTestEngine(4, 2)
	filterTo(t, e, 4)
	e.CompletePhase1(ctx)
	saves := store.saves
	if e.RepairBracketState(ctx) {
		t.Fatalf("healthy bracket was repaired")
	}

	cat := testCatalog(2)
	st := domain.DefaultState()
	st.Phase = domain.PhaseBracket
	st.BracketTotal = 2
	st.NextRoundQueue = []domain.Degree{cat[0]}
	st.EliminatedDegrees = []domain.Degree{cat[1].Tagged(domain.BracketRound(1))}
	e = NewEngine(storeWith(t, st), cat, rand.New(rand.NewSource(1)))
	e.Init(ctx)
	if e.state.CurrentMatch != nil || e.state.Phase != domain.PhaseBracket {
		t.Fatalf("lone participant should be left as is: %+v", e.state)
	}
	if store.saves != saves {
		t.Fatalf("unexpected save")
	}
}

func TestInitSettlesMissingWinner(t *testing.T) {
	ctx := context.Background()
	cat := testCatalog(4)

	store := &memStore{blob: []byte(`{"phase":"results","survivingDegrees":[{"id":"d00","category":"STEM"}],"eliminatedDegrees":[]}`), present: true}
	e := NewEngine(store, cat, rand.New(rand.NewSource(1)))
	e.Init(ctx)
	w, ok := e.Winner()
	if e.state.Phase != domain.PhaseResults || !ok || w.ID != "d00" {
		t.Fatalf("phase=%s winner=%+v, want results with d00", e.state.Phase, e.state.Winner)
	}
	if store.saves != 1 || store.saved(t).Winner == nil {
		t.Fatalf("settled winner not saved, saves = %d", store.saves)
	}

	for name, blob := range map[string]string{
		"no survivors":  `{"phase":"results","survivingDegrees":[],"eliminatedDegrees":[]}`,
		"two survivors": `{"phase":"results","survivingDegrees":[{"id":"d00"},{"id":"d01"}],"eliminatedDegrees":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			e := NewEngine(&memStore{blob: []byte(blob), present: true}, cat, rand.New(rand.NewSource(1)))
			e.Init(ctx)
			if st := e.State(); st.Phase != domain.PhaseWelcome || st.Winner != nil || len(st.SurvivingDegrees) != 0 {
				t.Fatalf("results save without a winner restored: %+v", st)
			}
		})
	}
}

func TestRepairHoldingQueueWithoutBracketTotal(t *testing.T) {
	ctx := context.Background()
	blob := `{"phase":"phase3-bracket","survivingDegrees":[],"eliminatedDegrees":[],"currentMatch":null,"bracketQueue":[],"nextRoundQueue":[{"id":"x","category":"STEM"},{"id":"y","category":"Arts"}]}`
	store := &memStore{blob: []byte(blob), present: true}
	e := NewEngine(store, testCatalog(4), rand.New(rand.NewSource(1)))

	e.Init(ctx)
	if e.RepairBracketState(ctx) {
		t.Fatalf("bracket repaired twice")
	}

	m := e.state.CurrentMatch
	if m == nil || m.A.ID != "x" || m.B.ID != "y" {
		t.Fatalf("current match = %+v, want x vs y", m)
	}
	if e.state.BracketTotal != 2 || e.state.Round != 1 {
		t.Fatalf("bracketTotal=%d round=%d, want 2 and 1", e.state.BracketTotal, e.state.Round)
	}
	if p := e.Progress(); p.TotalRounds != 1 || p.MatchesInRound != 1 || p.MatchNumberInRound != 1 {
		t.Fatalf("progress = %+v", p)
	}
	if got := store.saved(t); got.BracketTotal != 2 || got.CurrentMatch == nil {
		t.Fatalf("repaired state not saved: %+v", got)
	}

	if res := e.ResolveBracketMatch(ctx, "y"); !res.Success {
		t.Fatalf("final failed: %s", res.Message)
	}
	if w, ok := e.Winner(); !ok || w.ID != "y" {
		t.Fatalf("winner = %+v, want y", w)
	}
}

func TestRepairDerivesTotalFromLaterRound(t *testing.T) {
	cat := testCatalog(8)
	st := domain.DefaultState()
	st.Phase = domain.PhaseBracket
	st.Round = 2
	st.NextRoundQueue = append([]domain.Degree{}, cat[:4]...)
	for _, d := range cat[4:] {
		st.EliminatedDegrees = append(st.EliminatedDegrees, d.Tagged(domain.BracketRound(1)))
	}

	e := NewEngine(storeWith(t, st), cat, rand.New(rand.NewSource(1)))
	e.Init(context.Background())

	if e.state.BracketTotal != 8 || e.state.Round != 2 {
		t.Fatalf("bracketTotal=%d round=%d, want 8 and 2", e.state.BracketTotal, e.state.Round)
	}
	if e.state.CurrentMatch == nil || len(e.state.BracketQueue) != 1 {
		t.Fatalf("round 2 not rebuilt: %+v", e.state)
	}
	assertConserved(t, e, 8)
}
