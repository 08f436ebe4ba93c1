package comm

import (
	"encoding/json"
	"time"
)

// NATS topics shared between the services.
const (
	TopicPixConfirmed     = "pix.confirmed"
	TopicBracketUpdated   = "bracket.updated"
	TopicStandingsUpdated = "standings.updated"
)

type WSMessage struct {
	Type     string          `json:"type"` // e.g. "bracket", "standings"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// PixConfirmed is published by paysvc when the provider reports a payment
// as approved, either via webhook or via the pending-transaction poller.
type PixConfirmed struct {
	ProviderID string    `json:"provider_id"`
	Status     string    `json:"status"`
	ReceivedAt time.Time `json:"received_at"`
}

type MatchView struct {
	MatchID string `json:"match_id"`
	Round   string `json:"round"`
	Slot    int    `json:"slot"`
	TeamA   string `json:"team_a"`
	TeamB   string `json:"team_b"`
	Winner  string `json:"winner,omitempty"`
}

// BracketUpdate is fanned out to socketsvc after bracket generation and
// after every reported match.
type BracketUpdate struct {
	StageID string      `json:"stage_id"`
	Serie   string      `json:"serie"`
	Round   string      `json:"round"`
	Byes    []string    `json:"byes,omitempty"`
	Matches []MatchView `json:"matches"`
}

type StandingRow struct {
	TeamID    string `json:"team_id"`
	TeamName  string `json:"team_name"`
	Points    int    `json:"points"`
	Placement int    `json:"placement"`
}

// StandingsUpdate is fanned out after a stage is finalised.
type StandingsUpdate struct {
	ChampionshipID string        `json:"championship_id"`
	Serie          string        `json:"serie"`
	Rows           []StandingRow `json:"rows"`
}
