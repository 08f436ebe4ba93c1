package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

type PartStore struct {
	db DBTX
}

func NewPartStore(db DBTX) *PartStore {
	return &PartStore{db: db}
}

const partColumns = `id, team_id, car_id, installed, durability, max_durability,
	catalog_id, upgrade_catalog_id, installed_in_part_id, pending_payment_ref, created_at, updated_at`

func scanPart(row pgx.Row) (*models.Part, error) {
	var p models.Part
	err := row.Scan(&p.ID, &p.TeamID, &p.CarID, &p.Installed, &p.Durability,
		&p.MaxDurability, &p.CatalogID, &p.UpgradeCatalogID, &p.InstalledInPartID,
		&p.PendingPaymentRef, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan part: %w", err)
	}
	return &p, nil
}

func (s *PartStore) collect(rows pgx.Rows) ([]models.Part, error) {
	defer rows.Close()
	var parts []models.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, *p)
	}
	return parts, rows.Err()
}

// CreateFromCatalog materialises a blueprint into a warehouse part.
func (s *PartStore) CreateFromCatalog(ctx context.Context, teamID string, cat *models.PartCatalog, pendingRef string) (*models.Part, error) {
	p := &models.Part{
		ID:            uuid.NewString(),
		TeamID:        teamID,
		Durability:    cat.MaxDurability,
		MaxDurability: cat.MaxDurability,
	}
	p.CatalogID.String, p.CatalogID.Valid = cat.ID, true
	if pendingRef != "" {
		p.PendingPaymentRef.String, p.PendingPaymentRef.Valid = pendingRef, true
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO parts (id, team_id, durability, max_durability, catalog_id, pending_payment_ref)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, teamID, p.Durability, p.MaxDurability, cat.ID, p.PendingPaymentRef,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert part: %w", err)
	}
	return p, nil
}

// CreateFromUpgrade materialises an upgrade blueprint. Upgrades carry no
// durability of their own.
func (s *PartStore) CreateFromUpgrade(ctx context.Context, teamID string, upg *models.UpgradeCatalog, pendingRef string) (*models.Part, error) {
	p := &models.Part{ID: uuid.NewString(), TeamID: teamID}
	p.UpgradeCatalogID.String, p.UpgradeCatalogID.Valid = upg.ID, true
	if pendingRef != "" {
		p.PendingPaymentRef.String, p.PendingPaymentRef.Valid = pendingRef, true
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO parts (id, team_id, durability, max_durability, upgrade_catalog_id, pending_payment_ref)
		VALUES ($1, $2, 0, 0, $3, $4)
		RETURNING created_at, updated_at`,
		p.ID, teamID, upg.ID, p.PendingPaymentRef,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert upgrade: %w", err)
	}
	return p, nil
}

func (s *PartStore) GetByID(ctx context.Context, id string) (*models.Part, error) {
	return scanPart(s.db.QueryRow(ctx,
		`SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
}

func (s *PartStore) GetForUpdate(ctx context.Context, id string) (*models.Part, error) {
	return scanPart(s.db.QueryRow(ctx,
		`SELECT `+partColumns+` FROM parts WHERE id = $1 FOR UPDATE`, id))
}

func (s *PartStore) ListInstalledByCar(ctx context.Context, carID string) ([]models.Part, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+partColumns+` FROM parts WHERE car_id = $1 AND installed ORDER BY created_at`, carID)
	if err != nil {
		return nil, fmt.Errorf("list installed parts: %w", err)
	}
	return s.collect(rows)
}

func (s *PartStore) ListWarehouseByTeam(ctx context.Context, teamID string) ([]models.Part, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+partColumns+` FROM parts WHERE team_id = $1 AND NOT installed ORDER BY created_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list warehouse parts: %w", err)
	}
	return s.collect(rows)
}

// ListByPendingRef returns the parts bought under one payment reference.
func (s *PartStore) ListByPendingRef(ctx context.Context, pendingRef string) ([]models.Part, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+partColumns+` FROM parts WHERE pending_payment_ref = $1`, pendingRef)
	if err != nil {
		return nil, fmt.Errorf("list parts by paid ref: %w", err)
	}
	return s.collect(rows)
}

// GetInstalledByType returns the base part of the given slot type installed
// on the car, or ErrNotFound when the slot is empty.
func (s *PartStore) GetInstalledByType(ctx context.Context, carID, partType string) (*models.Part, error) {
	return scanPart(s.db.QueryRow(ctx, `
		SELECT p.id, p.team_id, p.car_id, p.installed, p.durability, p.max_durability,
			p.catalog_id, p.upgrade_catalog_id, p.installed_in_part_id, p.pending_payment_ref,
			p.created_at, p.updated_at
		FROM parts p JOIN part_catalog c ON c.id = p.catalog_id
		WHERE p.car_id = $1 AND p.installed AND c.type = $2`,
		carID, partType))
}

// ListUpgradesOn returns the upgrade instances bound to a base part,
// installed or bundled with it in the warehouse.
func (s *PartStore) ListUpgradesOn(ctx context.Context, basePartID string) ([]models.Part, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+partColumns+` FROM parts WHERE installed_in_part_id = $1`, basePartID)
	if err != nil {
		return nil, fmt.Errorf("list upgrades: %w", err)
	}
	return s.collect(rows)
}

// Install mounts a part on the car. basePartID is set for upgrades only.
func (s *PartStore) Install(ctx context.Context, id, carID string, basePartID *string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE parts SET car_id = $2, installed = TRUE, installed_in_part_id = $3, updated_at = now()
		WHERE id = $1`, id, carID, basePartID)
	if err != nil {
		return fmt.Errorf("install part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AttachToBase binds an upgrade to a base part sitting in the warehouse:
// the linkage is recorded but the upgrade stays uninstalled and off-car.
func (s *PartStore) AttachToBase(ctx context.Context, id, basePartID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE parts SET car_id = NULL, installed = FALSE, installed_in_part_id = $2, updated_at = now()
		WHERE id = $1`, id, basePartID)
	if err != nil {
		return fmt.Errorf("attach upgrade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Uninstall moves a part back to the team warehouse. An upgrade keeps its
// base-part linkage so the bundle reinstalls together.
func (s *PartStore) Uninstall(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE parts SET car_id = NULL, installed = FALSE, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("uninstall part: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// Detach uninstalls an upgrade and severs its base-part linkage.
func (s *PartStore) Detach(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE parts SET car_id = NULL, installed = FALSE, installed_in_part_id = NULL, updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("detach upgrade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PartStore) UpdateDurability(ctx context.Context, id string, durability decimal.Decimal) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE parts SET durability = $2, updated_at = now() WHERE id = $1`, id, durability)
	if err != nil {
		return fmt.Errorf("update durability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// RestoreDurability refits the part back to full.
func (s *PartStore) RestoreDurability(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE parts SET durability = max_durability, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("restore durability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PartStore) ClearPendingRef(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE parts SET pending_payment_ref = NULL, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clear paid ref: %w", err)
	}
	return nil
}

// UnpaidInstalledValue sums the catalogue prices of installed parts and
// upgrades still carrying a pending payment reference.
func (s *PartStore) UnpaidInstalledValue(ctx context.Context, carID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(COALESCE(c.price, u.price)), 0)
		FROM parts p
		LEFT JOIN part_catalog c ON c.id = p.catalog_id
		LEFT JOIN upgrade_catalog u ON u.id = p.upgrade_catalog_id
		WHERE p.car_id = $1 AND p.installed AND p.pending_payment_ref IS NOT NULL`,
		carID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum unpaid parts: %w", err)
	}
	return total, nil
}

// ClearPendingRefsOnCar clears pending payment markers after the activation
// fee covering them is settled.
func (s *PartStore) ClearPendingRefsOnCar(ctx context.Context, carID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE parts SET pending_payment_ref = NULL, updated_at = now() WHERE car_id = $1 AND pending_payment_ref IS NOT NULL`, carID)
	if err != nil {
		return fmt.Errorf("clear paid refs: %w", err)
	}
	return nil
}
