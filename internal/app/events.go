package app

import "pickmydegree/internal/domain"

// EventKind identifies what an engine operation did, for logging and client dispatch.
type EventKind string

const (
	EventPhaseChanged      EventKind = "phase_changed"
	EventDegreesEliminated EventKind = "degrees_eliminated"
	EventDegreesRestored   EventKind = "degrees_restored"
	EventMatchResolved     EventKind = "match_resolved"
	EventRoundStarted      EventKind = "round_started"
	EventWinnerDecided     EventKind = "winner_decided"
	EventStateRestored     EventKind = "state_restored"
	EventStateRepaired     EventKind = "state_repaired"
	EventGameReset         EventKind = "game_reset"
)

// Event is one engine event with its payload.
type Event struct {
	Kind    EventKind `json:"kind"`
	Payload any       `json:"payload,omitempty"`
}

type PhaseChangedPayload struct {
	From domain.Phase `json:"from"`
	To   domain.Phase `json:"to"`
}

type DegreesMovedPayload struct {
	IDs   []string        `json:"ids"`
	Round domain.RoundTag `json:"round,omitempty"`
}

type MatchResolvedPayload struct {
	Phase     domain.Phase `json:"phase"`
	Round     int          `json:"round"`
	KeptID    string       `json:"keptId"`
	DroppedID string       `json:"droppedId"`
}

type RoundStartedPayload struct {
	Round   int `json:"round"`
	Matches int `json:"matches"`
}

type WinnerDecidedPayload struct {
	WinnerID string `json:"winnerId"`
	Rounds   int    `json:"rounds"`
}

type StateRestoredPayload struct {
	Phase   domain.Phase `json:"phase"`
	Dropped int          `json:"dropped,omitempty"`
}

type StateRepairedPayload struct {
	Round   int    `json:"round"`
	Source  string `json:"source"`
	Matches int    `json:"matches"`
}
