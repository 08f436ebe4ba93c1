package pix

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stub is an in-memory provider for development. Charges start pending and
// flip to approved on the first status check.
type Stub struct {
	mu      sync.Mutex
	charges map[string]string
}

func NewStub() *Stub {
	return &Stub{charges: make(map[string]string)}
}

func (s *Stub) CreateCharge(_ context.Context, reference string, amount decimal.Decimal, _ string) (*Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := "stub-" + uuid.NewString()
	s.charges[id] = ChargePending
	return &Charge{
		ProviderID: id,
		QRCode:     fmt.Sprintf("stub-qr:%s:%s", reference, amount.StringFixed(2)),
		QRCodeURL:  "https://pix.invalid/qr/" + id,
		Status:     ChargePending,
	}, nil
}

func (s *Stub) ChargeStatus(_ context.Context, providerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	status, ok := s.charges[providerID]
	if !ok {
		return "", fmt.Errorf("unknown charge %s", providerID)
	}
	if status == ChargePending {
		s.charges[providerID] = ChargeApproved
		return ChargeApproved, nil
	}
	return status, nil
}
