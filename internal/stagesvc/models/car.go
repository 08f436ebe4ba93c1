package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

const (
	CarStatusActive  = "ativo"
	CarStatusResting = "repouso"
)

// CarModel is a catalogue entry (make/model/class). Priced once; instances
// reference it for part compatibility checks.
type CarModel struct {
	ID        string          `json:"id"`
	Make      string          `json:"make"`
	Model     string          `json:"model"`
	Class     string          `json:"class"`
	BasePrice decimal.Decimal `json:"base_price"`
	Image     string          `json:"image,omitempty"` // base64 jpeg, optional
	CreatedAt time.Time       `json:"created_at"`
}

// CarVariant bundles a model with optional part templates. Every model gets
// an empty V1 variant on creation; purchasing any variant creates an empty
// car instance (templates only drive the price).
type CarVariant struct {
	ID                     string          `json:"id"`
	ModelID                string          `json:"model_id"`
	Name                   string          `json:"name"`
	MotorTemplateID        sql.NullString  `json:"motor_template_id"`
	GearboxTemplateID      sql.NullString  `json:"gearbox_template_id"`
	SuspensionTemplateID   sql.NullString  `json:"suspension_template_id"`
	AngleKitTemplateID     sql.NullString  `json:"angle_kit_template_id"`
	DifferentialTemplateID sql.NullString  `json:"differential_template_id"`
	Price                  decimal.Decimal `json:"price"`
}

type Car struct {
	ID           string         `json:"id"`
	ModelID      string         `json:"model_id"`
	VariantID    string         `json:"variant_id"`
	TeamID       string         `json:"team_id"`
	SerialNumber int            `json:"serial_number"` // monotonic per team
	Nickname     string         `json:"nickname,omitempty"`
	Status       string         `json:"status"`
	ActivatedAt  sql.NullTime   `json:"activated_at"`
	RestedAt     sql.NullTime   `json:"rested_at"`
	Wins         int            `json:"wins"`
	Losses       int            `json:"losses"`
	Draws        int            `json:"draws"`
	Battles      int            `json:"battles"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
