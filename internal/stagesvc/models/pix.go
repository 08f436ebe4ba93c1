package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	PixKindPart          = "peca"
	PixKindCarActivation = "carro_ativacao"
	PixKindInscription   = "inscricao_etapa"
	PixKindTopup         = "recarga_saldo"
)

const (
	PixStatusPending  = "pendente"
	PixStatusApproved = "aprovado"
	PixStatusCancelled = "cancelado"
)

// PixTransaction follows a purchase or inscription intent from creation to
// provider confirmation. Status only moves pending -> approved or
// pending -> cancelled.
type PixTransaction struct {
	ID          string          `json:"id"`
	TeamID      string          `json:"team_id"`
	Kind        string          `json:"kind"`
	ItemID      string          `json:"item_id"`
	CarID       sql.NullString  `json:"car_id"`
	ItemAmount  decimal.Decimal `json:"item_amount"`
	FeeAmount   decimal.Decimal `json:"fee_amount"`
	Status      string          `json:"status"`
	ProviderID  sql.NullString  `json:"provider_id"`
	QRCode      string          `json:"qr_code,omitempty"`
	QRCodeURL   string          `json:"qr_code_url,omitempty"`
	Payload     json.RawMessage `json:"payload,omitempty"` // kind-specific extras
	CreatedAt   time.Time       `json:"created_at"`
	ConfirmedAt sql.NullTime    `json:"confirmed_at"`
}

// ActivationRequest is the operator-approval step between a paid car
// activation and the car actually becoming active.
type ActivationRequest struct {
	ID            string         `json:"id"`
	TeamID        string         `json:"team_id"`
	CarID         string         `json:"car_id"`
	PreviousCarID sql.NullString `json:"previous_car_id"`
	Status        string         `json:"status"` // 'pendente', 'aprovada', 'recusada'
	CreatedAt     time.Time      `json:"created_at"`
}
