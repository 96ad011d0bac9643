package domain

import (
	"strconv"
	"strings"
)

// RoundTag records where a degree was eliminated.
type RoundTag string

const (
	// RoundCategories marks degrees removed together with their category.
	RoundCategories RoundTag = "categories"
	// RoundFilter marks degrees dropped one by one in the manual filter.
	RoundFilter RoundTag = "phase1"
	// RoundReduction marks losers of the power-of-two reduction matches.
	RoundReduction RoundTag = "phase2"

	bracketRoundPrefix = "bracket-"
)

// BracketRound returns the tag for a loser of the given bracket round.
func BracketRound(round int) RoundTag {
	return RoundTag(bracketRoundPrefix + strconv.Itoa(round))
}

// BracketRoundNumber extracts the bracket round from a tag; ok is false for other tags.
func (r RoundTag) BracketRoundNumber() (int, bool) {
	rest, found := strings.CutPrefix(string(r), bracketRoundPrefix)
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Degree is one candidate in the pool. Round and EliminatedAtIndex are attached by the
// engine; everything else comes from the catalog unchanged.
type Degree struct {
	ID                string        `json:"id"`
	Category          string        `json:"category"`
	Name              LocalizedText `json:"name,omitempty"`
	Description       LocalizedText `json:"description,omitempty"`
	Round             RoundTag      `json:"round,omitempty"`
	EliminatedAtIndex *int          `json:"eliminatedAtIndex,omitempty"`
}

// Clone returns a copy that shares no mutable data with d.
func (d Degree) Clone() Degree {
	out := d
	out.Name = d.Name.Clone()
	out.Description = d.Description.Clone()
	if d.EliminatedAtIndex != nil {
		idx := *d.EliminatedAtIndex
		out.EliminatedAtIndex = &idx
	}
	return out
}

// Tagged returns a copy eliminated in the given round.
func (d Degree) Tagged(round RoundTag) Degree {
	out := d.Clone()
	out.Round = round
	out.EliminatedAtIndex = nil
	return out
}

// TaggedAt returns a copy eliminated in the manual filter from position index.
func (d Degree) TaggedAt(index int) Degree {
	out := d.Tagged(RoundFilter)
	out.EliminatedAtIndex = &index
	return out
}

// Untagged strips the engine-attached elimination metadata.
func (d Degree) Untagged() Degree {
	out := d.Clone()
	out.Round = ""
	out.EliminatedAtIndex = nil
	return out
}

// DisplayName resolves the name for a locale, falling back to the id.
func (d Degree) DisplayName(locale string) string {
	if name := d.Name.Resolve(locale); name != "" {
		return name
	}
	return d.ID
}
