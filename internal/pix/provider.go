// Package pix abstracts the external payment provider used to charge
// teams real money. The stage service only needs to create a charge and
// later check its status.
package pix

import (
	"context"

	"github.com/shopspring/decimal"
)

const (
	ChargeApproved  = "approved"
	ChargePending   = "pending"
	ChargeCancelled = "cancelled"
)

// Charge is the provider's view of a payment intent.
type Charge struct {
	ProviderID string
	QRCode     string
	QRCodeURL  string
	Status     string
}

// Provider creates charges and reports their status. Implementations must
// be safe for concurrent use.
type Provider interface {
	CreateCharge(ctx context.Context, reference string, amount decimal.Decimal, description string) (*Charge, error)
	ChargeStatus(ctx context.Context, providerID string) (string, error)
}
