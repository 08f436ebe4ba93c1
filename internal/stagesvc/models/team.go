package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Team carries the two balances: Doricoins is the in-game coin and never
// goes negative, SaldoPix is the external-money balance and may run down
// to the configured floor.
type Team struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Serie      string          `json:"serie"` // 'A' or 'B'
	Doricoins  decimal.Decimal `json:"doricoins"`
	SaldoPix   decimal.Decimal `json:"saldo_pix"`
	InviteCode sql.NullString  `json:"invite_code,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
