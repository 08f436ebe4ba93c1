package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Part slot types. Motor, gearbox, suspension and angle-kit are mandatory
// and limited to one installed part each; differentials are unbounded.
const (
	PartTypeMotor        = "motor"
	PartTypeGearbox      = "cambio"
	PartTypeSuspension   = "suspensao"
	PartTypeAngleKit     = "kit_angulo"
	PartTypeDifferential = "diferencial"
)

// MandatorySlots are the slot types a car must fill before it can be
// inscribed to a stage.
var MandatorySlots = []string{PartTypeMotor, PartTypeGearbox, PartTypeSuspension, PartTypeAngleKit}

// PartCatalog is a purchasable part blueprint. Compatibility is a set of
// car-model ids; an empty set means universal.
type PartCatalog struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Type             string          `json:"type"`
	Price            decimal.Decimal `json:"price"`
	MaxDurability    decimal.Decimal `json:"max_durability"`
	BreakCoefficient decimal.Decimal `json:"break_coefficient"`
	Compatibility    []string        `json:"compatibility"`
	Image            string          `json:"image,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// UpgradeCatalog is a purchasable add-on bound to one base part blueprint.
// Upgrades modify the damage of the part they sit on and never take damage
// themselves.
type UpgradeCatalog struct {
	ID         string          `json:"id"`
	BasePartID string          `json:"base_part_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Part is an owned instance of a catalogue part or upgrade. It is either in
// the team warehouse (CarID null, not installed) or on the team's car. An
// upgrade instance additionally records the base part it augments.
type Part struct {
	ID                string          `json:"id"`
	TeamID            string          `json:"team_id"`
	CarID             sql.NullString  `json:"car_id"`
	Installed         bool            `json:"installed"`
	Durability        decimal.Decimal `json:"durability"`
	MaxDurability     decimal.Decimal `json:"max_durability"`
	CatalogID         sql.NullString  `json:"catalog_id"`
	UpgradeCatalogID  sql.NullString  `json:"upgrade_catalog_id"`
	InstalledInPartID sql.NullString  `json:"installed_in_part_id"`
	PendingPaymentRef sql.NullString  `json:"pending_payment_ref"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// IsUpgrade reports whether the instance is an upgrade rather than a base part.
func (p *Part) IsUpgrade() bool {
	return p.UpgradeCatalogID.Valid
}

// NeedsRepair reports whether the part dropped below half of its maximum
// durability.
func (p *Part) NeedsRepair() bool {
	if p.MaxDurability.IsZero() {
		return false
	}
	half := p.MaxDurability.Div(decimal.NewFromInt(2))
	return p.Durability.LessThan(half)
}
