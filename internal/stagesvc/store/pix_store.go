package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

type PixStore struct {
	db DBTX
}

func NewPixStore(db DBTX) *PixStore {
	return &PixStore{db: db}
}

const pixColumns = `id, team_id, kind, item_id, car_id, item_amount, fee_amount, status,
	provider_id, qr_code, qr_code_url, payload, created_at, confirmed_at`

func scanPix(row pgx.Row) (*models.PixTransaction, error) {
	var t models.PixTransaction
	err := row.Scan(&t.ID, &t.TeamID, &t.Kind, &t.ItemID, &t.CarID, &t.ItemAmount,
		&t.FeeAmount, &t.Status, &t.ProviderID, &t.QRCode, &t.QRCodeURL,
		&t.Payload, &t.CreatedAt, &t.ConfirmedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan pix transaction: %w", err)
	}
	return &t, nil
}

func (s *PixStore) Create(ctx context.Context, t *models.PixTransaction) error {
	t.ID = uuid.NewString()
	t.Status = models.PixStatusPending
	err := s.db.QueryRow(ctx, `
		INSERT INTO pix_transactions (id, team_id, kind, item_id, car_id, item_amount, fee_amount, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		t.ID, t.TeamID, t.Kind, t.ItemID, t.CarID, t.ItemAmount, t.FeeAmount, t.Payload,
	).Scan(&t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert pix transaction: %w", err)
	}
	return nil
}

// AttachProvider records the provider's charge id and QR payload.
func (s *PixStore) AttachProvider(ctx context.Context, id, providerID, qrCode, qrCodeURL string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE pix_transactions SET provider_id = $2, qr_code = $3, qr_code_url = $4
		WHERE id = $1`, id, providerID, qrCode, qrCodeURL)
	if err != nil {
		return fmt.Errorf("attach pix provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PixStore) GetByID(ctx context.Context, id string) (*models.PixTransaction, error) {
	return scanPix(s.db.QueryRow(ctx,
		`SELECT `+pixColumns+` FROM pix_transactions WHERE id = $1`, id))
}

// GetForUpdateByRef locks the transaction matching either the provider's
// charge id or the local id. Confirmation flows call this first.
func (s *PixStore) GetForUpdateByRef(ctx context.Context, ref string) (*models.PixTransaction, error) {
	return scanPix(s.db.QueryRow(ctx, `
		SELECT `+pixColumns+` FROM pix_transactions
		WHERE provider_id = $1 OR id::text = $1
		FOR UPDATE`, ref))
}

func (s *PixStore) MarkApproved(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE pix_transactions SET status = 'aprovado', confirmed_at = now()
		WHERE id = $1 AND status = 'pendente'`, id)
	if err != nil {
		return fmt.Errorf("approve pix transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PixStore) MarkCancelled(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE pix_transactions SET status = 'cancelado'
		WHERE id = $1 AND status = 'pendente'`, id)
	if err != nil {
		return fmt.Errorf("cancel pix transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListPending returns pending transactions that already have a provider id,
// oldest first, for the reconciliation poller.
func (s *PixStore) ListPending(ctx context.Context, limit int) ([]models.PixTransaction, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+pixColumns+` FROM pix_transactions
		WHERE status = 'pendente' AND provider_id IS NOT NULL
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending pix transactions: %w", err)
	}
	defer rows.Close()

	var out []models.PixTransaction
	for rows.Next() {
		t, err := scanPix(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *PixStore) CreateActivationRequest(ctx context.Context, r *models.ActivationRequest) error {
	r.ID = uuid.NewString()
	r.Status = "pendente"
	err := s.db.QueryRow(ctx, `
		INSERT INTO activation_requests (id, team_id, car_id, previous_car_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		r.ID, r.TeamID, r.CarID, r.PreviousCarID,
	).Scan(&r.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activation request: %w", err)
	}
	return nil
}

func (s *PixStore) GetActivationRequest(ctx context.Context, id string) (*models.ActivationRequest, error) {
	var r models.ActivationRequest
	err := s.db.QueryRow(ctx, `
		SELECT id, team_id, car_id, previous_car_id, status, created_at
		FROM activation_requests WHERE id = $1`, id,
	).Scan(&r.ID, &r.TeamID, &r.CarID, &r.PreviousCarID, &r.Status, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get activation request: %w", err)
	}
	return &r, nil
}

func (s *PixStore) ListPendingActivationRequests(ctx context.Context) ([]models.ActivationRequest, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, team_id, car_id, previous_car_id, status, created_at
		FROM activation_requests WHERE status = 'pendente'
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list activation requests: %w", err)
	}
	defer rows.Close()

	var out []models.ActivationRequest
	for rows.Next() {
		var r models.ActivationRequest
		if err := rows.Scan(&r.ID, &r.TeamID, &r.CarID, &r.PreviousCarID, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activation request: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PixStore) SetActivationRequestStatus(ctx context.Context, id, status string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE activation_requests SET status = $2
		WHERE id = $1 AND status = 'pendente'`, id, status)
	if err != nil {
		return fmt.Errorf("update activation request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
