package models

import "time"

const (
	CandidateStatusPending    = "pending"
	CandidateStatusDesignated = "designated"
	CandidateStatusConfirmed  = "confirmed"
	CandidateStatusCancelled  = "cancelled"
)

type Piloto struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Wins         int       `json:"wins"`
	Losses       int       `json:"losses"`
	Draws        int       `json:"draws"`
	CreatedAt    time.Time `json:"created_at"`
}

// PilotoTeamLink binds a piloto to a team. Links are created by redeeming
// the team's invite code.
type PilotoTeamLink struct {
	PilotoID   string    `json:"piloto_id"`
	TeamID     string    `json:"team_id"`
	InviteCode string    `json:"invite_code"`
	Status     string    `json:"status"` // 'active' or 'revoked'
	CreatedAt  time.Time `json:"created_at"`
}

// PilotoCandidate is a piloto's application to drive for a team on one
// stage. A piloto holds at most one live candidature per stage.
type PilotoCandidate struct {
	ID        string    `json:"id"`
	StageID   string    `json:"stage_id"`
	TeamID    string    `json:"team_id"`
	PilotoID  string    `json:"piloto_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
