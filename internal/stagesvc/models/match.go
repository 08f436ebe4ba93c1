package models

import (
	"database/sql"
	"time"
)

// Match is one head-to-head slot in a stage round. Participants and winner
// are team ids; RoundOrdinal is 1 for the stage's first generated round.
type Match struct {
	ID           string         `json:"id"`
	StageID      string         `json:"stage_id"`
	Round        string         `json:"round"` // top32, top16, top8, top4, final
	RoundOrdinal int            `json:"round_ordinal"`
	Slot         int            `json:"slot"`
	TeamAID      string         `json:"team_a_id"`
	TeamBID      string         `json:"team_b_id"`
	WinnerID     sql.NullString `json:"winner_id"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (m *Match) Resolved() bool {
	return m.WinnerID.Valid
}
