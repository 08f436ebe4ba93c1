// Package apperr defines the error kinds the stage engine surfaces to its
// callers. Handlers map these onto HTTP status codes; everything else is
// treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInsufficientFunds = errors.New("insufficient doricoins")
	ErrFloorBreached     = errors.New("pix balance floor breached")
	ErrIncompatiblePart  = errors.New("part incompatible with car model")
	ErrSlotLimitReached  = errors.New("slot limit reached")
	ErrNotInWarehouse    = errors.New("part not in warehouse")
	ErrNotRefittable     = errors.New("part not refittable")
	ErrAlreadyCandidated = errors.New("piloto already candidated on this stage")
	ErrNoCandidates      = errors.New("no pending candidates")
	ErrStageNotInPhase   = errors.New("stage not in required phase")
	ErrExternalFailure   = errors.New("external service failure")
)

// RegularisationError is returned when an inscription would push the team's
// pix balance below the floor. Settlement is the amount the team has to pay
// to clear its debt and cover the stage fee.
type RegularisationError struct {
	Settlement decimal.Decimal
}

func (e *RegularisationError) Error() string {
	return fmt.Sprintf("balance regularisation required: settlement %s", e.Settlement.StringFixed(2))
}

// RequiresRegularisation reports whether err carries a settlement demand and
// returns it when it does.
func RequiresRegularisation(err error) (*RegularisationError, bool) {
	var re *RegularisationError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
