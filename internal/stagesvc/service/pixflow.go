package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/pix"
	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// PixService creates payment intents and applies their confirmation
// side effects. Confirmation is idempotent: a transaction settles once no
// matter how many webhooks or manual confirms arrive.
type PixService struct {
	pool     *pgxpool.Pool
	provider pix.Provider
}

func NewPixService(pool *pgxpool.Pool, provider pix.Provider) *PixService {
	return &PixService{pool: pool, provider: provider}
}

// CreatePartIntent starts a pix purchase of a catalogue part. The part
// lands in the warehouse immediately, flagged unpaid until confirmation.
func (s *PixService) CreatePartIntent(ctx context.Context, teamID, catalogID string) (*models.PixTransaction, error) {
	var pixTx *models.PixTransaction
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		cat, err := st.catalog.GetPart(ctx, catalogID)
		if err != nil {
			return err
		}
		pixTx = &models.PixTransaction{
			TeamID:     teamID,
			Kind:       models.PixKindPart,
			ItemID:     catalogID,
			ItemAmount: cat.Price,
		}
		if err := st.pixTx.Create(ctx, pixTx); err != nil {
			return err
		}
		_, err = st.parts.CreateFromCatalog(ctx, teamID, cat, pixTx.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.createCharge(ctx, pixTx, "compra de peca")
	return pixTx, nil
}

// CreateUpgradeIntent starts a pix purchase of an upgrade.
func (s *PixService) CreateUpgradeIntent(ctx context.Context, teamID, upgradeID string) (*models.PixTransaction, error) {
	var pixTx *models.PixTransaction
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		upg, err := st.catalog.GetUpgrade(ctx, upgradeID)
		if err != nil {
			return err
		}
		pixTx = &models.PixTransaction{
			TeamID:     teamID,
			Kind:       models.PixKindPart,
			ItemID:     upgradeID,
			ItemAmount: upg.Price,
		}
		if err := st.pixTx.Create(ctx, pixTx); err != nil {
			return err
		}
		_, err = st.parts.CreateFromUpgrade(ctx, teamID, upg, pixTx.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.createCharge(ctx, pixTx, "compra de upgrade")
	return pixTx, nil
}

// CreateActivationIntent charges the unpaid value of everything installed
// on the car. Confirmation files an operator activation request rather than
// activating directly.
func (s *PixService) CreateActivationIntent(ctx context.Context, teamID, carID string) (*models.PixTransaction, error) {
	var pixTx *models.PixTransaction
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		car, err := st.cars.GetByID(ctx, carID)
		if err != nil {
			return err
		}
		if car.TeamID != teamID {
			return apperr.ErrForbidden
		}
		if car.Status == models.CarStatusActive {
			return apperr.ErrStageNotInPhase
		}
		amount, err := st.parts.UnpaidInstalledValue(ctx, carID)
		if err != nil {
			return err
		}
		pixTx = &models.PixTransaction{
			TeamID:     teamID,
			Kind:       models.PixKindCarActivation,
			ItemID:     carID,
			ItemAmount: amount,
		}
		pixTx.CarID.String, pixTx.CarID.Valid = carID, true
		return st.pixTx.Create(ctx, pixTx)
	})
	if err != nil {
		return nil, err
	}
	if pixTx.ItemAmount.IsZero() {
		// nothing owed, settle immediately
		if err := s.Confirm(ctx, pixTx.ID); err != nil {
			return nil, err
		}
		return pixTx, nil
	}
	s.createCharge(ctx, pixTx, "ativacao de carro")
	return pixTx, nil
}

// CreateTopupIntent starts a saldo pix recharge.
func (s *PixService) CreateTopupIntent(ctx context.Context, teamID string, amount decimal.Decimal) (*models.PixTransaction, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("topup amount must be positive")
	}
	pixTx := &models.PixTransaction{
		TeamID:     teamID,
		Kind:       models.PixKindTopup,
		ItemID:     teamID,
		ItemAmount: amount,
	}
	if err := store.NewPixStore(s.pool).Create(ctx, pixTx); err != nil {
		return nil, err
	}
	s.createCharge(ctx, pixTx, "recarga de saldo")
	return pixTx, nil
}

func (s *PixService) createCharge(ctx context.Context, pixTx *models.PixTransaction, description string) {
	if s.provider == nil {
		return
	}
	charge, err := s.provider.CreateCharge(ctx, pixTx.ID, pixTx.ItemAmount, description)
	if err != nil {
		logrus.WithError(err).WithField("pix_id", pixTx.ID).Error("provider charge creation failed")
		return
	}
	if err := store.NewPixStore(s.pool).AttachProvider(ctx, pixTx.ID, charge.ProviderID, charge.QRCode, charge.QRCodeURL); err != nil {
		logrus.WithError(err).WithField("pix_id", pixTx.ID).Error("attach provider id failed")
	}
	pixTx.ProviderID.String, pixTx.ProviderID.Valid = charge.ProviderID, true
	pixTx.QRCode, pixTx.QRCodeURL = charge.QRCode, charge.QRCodeURL
}

// Confirm settles a transaction by provider charge id or local id. Already
// settled transactions return nil so replayed webhooks stay harmless.
func (s *PixService) Confirm(ctx context.Context, ref string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return confirmPixTx(ctx, newStores(tx), ref)
	})
}

func confirmPixTx(ctx context.Context, st *stores, ref string) error {
	pixTx, err := st.pixTx.GetForUpdateByRef(ctx, ref)
	if err != nil {
		return err
	}
	if pixTx.Status == models.PixStatusApproved {
		return nil
	}
	if pixTx.Status != models.PixStatusPending {
		return fmt.Errorf("transaction %s is %s: %w", pixTx.ID, pixTx.Status, apperr.ErrStageNotInPhase)
	}
	if err := st.pixTx.MarkApproved(ctx, pixTx.ID); err != nil {
		return err
	}
	if err := applyConfirmation(ctx, st, pixTx); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"pix_id": pixTx.ID,
		"kind":   pixTx.Kind,
		"amount": pixTx.ItemAmount.StringFixed(2),
	}).Info("pix transaction confirmed")
	return nil
}

// applyConfirmation runs the kind-specific settlement.
func applyConfirmation(ctx context.Context, st *stores, pixTx *models.PixTransaction) error {
	switch pixTx.Kind {
	case models.PixKindPart:
		return clearPendingParts(ctx, st, pixTx.ID)

	case models.PixKindCarActivation:
		if !pixTx.CarID.Valid {
			return fmt.Errorf("activation transaction %s has no car", pixTx.ID)
		}
		if err := st.parts.ClearPendingRefsOnCar(ctx, pixTx.CarID.String); err != nil {
			return err
		}
		req := &models.ActivationRequest{
			TeamID: pixTx.TeamID,
			CarID:  pixTx.CarID.String,
		}
		current, err := st.cars.GetActiveByTeam(ctx, pixTx.TeamID)
		if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
		if current != nil {
			req.PreviousCarID.String, req.PreviousCarID.Valid = current.ID, true
		}
		return st.pixTx.CreateActivationRequest(ctx, req)

	case models.PixKindInscription:
		// settlement covers the debt plus the stage fee
		team, err := st.teams.GetForUpdate(ctx, pixTx.TeamID)
		if err != nil {
			return err
		}
		next := team.SaldoPix.Add(pixTx.ItemAmount).Sub(pixTx.FeeAmount)
		if err := st.teams.UpdateSaldoPix(ctx, pixTx.TeamID, next); err != nil {
			return err
		}
		return inscribeAfterSettlement(ctx, st, pixTx)

	case models.PixKindTopup:
		team, err := st.teams.GetForUpdate(ctx, pixTx.TeamID)
		if err != nil {
			return err
		}
		return st.teams.UpdateSaldoPix(ctx, pixTx.TeamID, team.SaldoPix.Add(pixTx.ItemAmount))

	default:
		return fmt.Errorf("unknown pix kind %q", pixTx.Kind)
	}
}

// inscribeAfterSettlement writes the participation a floor-blocked
// inscription was denied. Confirming twice, or confirming after the team
// somehow inscribed through another path, changes nothing.
func inscribeAfterSettlement(ctx context.Context, st *stores, pixTx *models.PixTransaction) error {
	if _, err := st.participations.GetByStageAndTeam(ctx, pixTx.ItemID, pixTx.TeamID); err == nil {
		return nil
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	ptype := models.ParticipationOwnerDrives
	if len(pixTx.Payload) > 0 {
		var extras struct {
			Tipo string `json:"tipo"`
		}
		if err := json.Unmarshal(pixTx.Payload, &extras); err == nil && extras.Tipo != "" {
			ptype = extras.Tipo
		}
	}
	carID := pixTx.CarID.String
	if !pixTx.CarID.Valid {
		car, err := st.cars.GetActiveByTeam(ctx, pixTx.TeamID)
		if err != nil {
			return err
		}
		carID = car.ID
	}
	return st.participations.Create(ctx, &models.Participation{
		StageID: pixTx.ItemID,
		TeamID:  pixTx.TeamID,
		CarID:   carID,
		Type:    ptype,
	})
}

// clearPendingParts releases the unpaid flag from the warehouse items bought
// by the transaction.
func clearPendingParts(ctx context.Context, st *stores, pixID string) error {
	parts, err := st.parts.ListByPendingRef(ctx, pixID)
	if err != nil {
		return err
	}
	for _, p := range parts {
		if err := st.parts.ClearPendingRef(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

// Transaction returns one transaction by local id.
func (s *PixService) Transaction(ctx context.Context, id string) (*models.PixTransaction, error) {
	return store.NewPixStore(s.pool).GetByID(ctx, id)
}

// PendingActivations lists the activation requests awaiting the operator.
func (s *PixService) PendingActivations(ctx context.Context) ([]models.ActivationRequest, error) {
	return store.NewPixStore(s.pool).ListPendingActivationRequests(ctx)
}

// Cancel voids a pending transaction.
func (s *PixService) Cancel(ctx context.Context, ref string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		pixTx, err := st.pixTx.GetForUpdateByRef(ctx, ref)
		if err != nil {
			return err
		}
		if pixTx.Status == models.PixStatusCancelled {
			return nil
		}
		return st.pixTx.MarkCancelled(ctx, pixTx.ID)
	})
}

// ApproveActivation is the operator accepting a paid activation request:
// the previous active car rests, the new one activates.
func (s *PixService) ApproveActivation(ctx context.Context, requestID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		req, err := st.pixTx.GetActivationRequest(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != "pendente" {
			return apperr.ErrStageNotInPhase
		}
		if req.PreviousCarID.Valid {
			if err := st.cars.Rest(ctx, req.PreviousCarID.String); err != nil {
				return err
			}
		}
		if err := st.cars.Activate(ctx, req.CarID); err != nil {
			return err
		}
		return st.pixTx.SetActivationRequestStatus(ctx, requestID, "aprovada")
	})
}

// RejectActivation declines the request; the payment stays settled and the
// parts stay paid.
func (s *PixService) RejectActivation(ctx context.Context, requestID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return store.NewPixStore(tx).SetActivationRequestStatus(ctx, requestID, "recusada")
	})
}
