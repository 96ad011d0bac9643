package main

import (
	"fmt"
	"io"
	"strings"

	"pickmydegree/internal/dataset"
	"pickmydegree/internal/domain"
)

var phaseTitles = map[domain.Phase]string{
	domain.PhaseWelcome:    "Welcome",
	domain.PhaseRules:      "Rules",
	domain.PhaseDonate:     "Support the project",
	domain.PhaseCategories: "Step 1: remove categories",
	domain.PhaseFilter:     "Step 2: drop degrees you would never pick",
	domain.PhaseReduction:  "Step 3: qualifying matches",
	domain.PhaseBracket:    "Step 4: the bracket",
	domain.PhaseResults:    "Your degree",
}

// render prints the current phase the way a player needs to see it.
func render(w io.Writer, s *session) {
	st := s.engine.State()
	p := s.engine.Progress()
	fmt.Fprintf(w, "== %s ==\n", phaseTitles[st.Phase])

	switch st.Phase {
	case domain.PhaseWelcome:
		fmt.Fprintf(w, "%d degrees are waiting. Run `pickdegree new` to start or `pickdegree rules` first.\n", len(s.catalog))
	case domain.PhaseRules:
		fmt.Fprintln(w, "Remove categories, drop degrees one by one, then pick the better of two until one is left.")
	case domain.PhaseDonate:
		fmt.Fprintln(w, "Thanks for playing. Run `pickdegree welcome` to go back.")
	case domain.PhaseCategories:
		counts := dataset.CountByCategory(st.SurvivingDegrees)
		removed := dataset.CountByCategory(removedIn(st, domain.RoundCategories))
		for _, c := range dataset.Categories(s.catalog) {
			if counts[c] > 0 {
				fmt.Fprintf(w, "  [x] %-20s %d\n", c, counts[c])
			} else if removed[c] > 0 {
				fmt.Fprintf(w, "  [ ] %-20s removed\n", c)
			}
		}
		fmt.Fprintf(w, "%d degrees left.\n", len(st.SurvivingDegrees))
	case domain.PhaseFilter:
		for i, d := range st.SurvivingDegrees {
			fmt.Fprintf(w, "%3d. %-24s %s\n", i+1, d.ID, d.DisplayName(s.locale))
		}
		fmt.Fprintf(w, "%d kept, %d dropped here.\n", len(st.SurvivingDegrees), len(removedIn(st, domain.RoundFilter)))
	case domain.PhaseReduction:
		fmt.Fprintf(w, "Match %d of %d\n", p.PairNumber, p.TotalPairs)
		renderMatch(w, st.CurrentMatch, s.locale)
	case domain.PhaseBracket:
		fmt.Fprintf(w, "Round %d of %d, match %d of %d\n", p.Round, p.TotalRounds, p.MatchNumberInRound, p.MatchesInRound)
		renderMatch(w, st.CurrentMatch, s.locale)
	case domain.PhaseResults:
		if st.Winner != nil {
			fmt.Fprintf(w, "%s (%s)\n", st.Winner.DisplayName(s.locale), st.Winner.Category)
			if desc := st.Winner.Description.Resolve(s.locale); desc != "" {
				fmt.Fprintln(w, desc)
			}
		}
		fmt.Fprintf(w, "Chosen over %d other degrees.\n", len(st.EliminatedDegrees))
	}
}

func renderMatch(w io.Writer, m *domain.Match, locale string) {
	if m == nil {
		fmt.Fprintln(w, "No match is waiting. Run `pickdegree repair`.")
		return
	}
	for _, d := range []domain.Degree{m.A, m.B} {
		fmt.Fprintf(w, "  %-24s %s\n", d.ID, d.DisplayName(locale))
		if desc := d.Description.Resolve(locale); desc != "" {
			fmt.Fprintf(w, "  %-24s %s\n", "", strings.TrimSpace(desc))
		}
	}
}

func removedIn(st domain.GameState, round domain.RoundTag) []domain.Degree {
	var out []domain.Degree
	for _, d := range st.EliminatedDegrees {
		if d.Round == round {
			out = append(out, d)
		}
	}
	return out
}
