package models

import (
	"database/sql"
	"time"
)

const (
	ChampionshipOngoing  = "ongoing"
	ChampionshipFinished = "finished"
)

const (
	StageScheduled  = "agendada"
	StageInProgress = "em_andamento"
	StageFinished   = "finalizada"
)

const (
	ParticipationOwnerDrives = "dono_pilota"
	ParticipationHasPiloto   = "tem_piloto"
	ParticipationNeedsPiloto = "precisa_piloto"
)

const ParticipationInscribed = "inscrita"

type Championship struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Serie         string    `json:"serie"`
	PlannedStages int       `json:"planned_stages"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type Stage struct {
	ID                string    `json:"id"`
	ChampionshipID    string    `json:"championship_id"`
	Ordinal           int       `json:"ordinal"`
	Name              string    `json:"name"`
	Date              time.Time `json:"date"`
	Serie             string    `json:"serie"`
	Status            string    `json:"status"`
	QualificationDone bool      `json:"qualification_done"`
	CreatedAt         time.Time `json:"created_at"`
}

type Participation struct {
	ID        string         `json:"id"`
	StageID   string         `json:"stage_id"`
	TeamID    string         `json:"team_id"`
	CarID     string         `json:"car_id"`
	PilotoID  sql.NullString `json:"piloto_id"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	QualOrder sql.NullInt32  `json:"qual_order"`
	CreatedAt time.Time      `json:"created_at"`
}

// QualificationNote holds the operator-recorded attribute scores for one
// team on one stage. Line is 0..40, angle and style 0..30.
type QualificationNote struct {
	StageID string `json:"stage_id"`
	TeamID  string `json:"team_id"`
	Line    int    `json:"line"`
	Angle   int    `json:"angle"`
	Style   int    `json:"style"`
}

type ChampionshipScore struct {
	ChampionshipID string `json:"championship_id"`
	TeamID         string `json:"team_id"`
	Points         int    `json:"points"`
	Placement      int    `json:"placement"`
}
