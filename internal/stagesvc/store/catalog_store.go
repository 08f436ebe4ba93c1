package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/domain/compat"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

// CatalogStore covers the purchasable blueprints: car models, variants,
// part blueprints and upgrade blueprints.
type CatalogStore struct {
	db DBTX
}

func NewCatalogStore(db DBTX) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) CreateModel(ctx context.Context, m *models.CarModel) error {
	m.ID = uuid.NewString()
	err := s.db.QueryRow(ctx, `
		INSERT INTO car_models (id, make, model, class, base_price, image)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		m.ID, m.Make, m.Model, m.Class, m.BasePrice, m.Image,
	).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert car model: %w", err)
	}
	// every model starts with an empty V1 variant at the model's base price
	_, err = s.db.Exec(ctx, `
		INSERT INTO car_variants (id, model_id, name, price)
		VALUES ($1, $2, 'V1', $3)`,
		uuid.NewString(), m.ID, m.BasePrice)
	if err != nil {
		return fmt.Errorf("insert default variant: %w", err)
	}
	return nil
}

func (s *CatalogStore) GetModel(ctx context.Context, id string) (*models.CarModel, error) {
	var m models.CarModel
	err := s.db.QueryRow(ctx, `
		SELECT id, make, model, class, base_price, image, created_at
		FROM car_models WHERE id = $1`, id,
	).Scan(&m.ID, &m.Make, &m.Model, &m.Class, &m.BasePrice, &m.Image, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car model: %w", err)
	}
	return &m, nil
}

func (s *CatalogStore) ListModels(ctx context.Context) ([]models.CarModel, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, make, model, class, base_price, image, created_at
		FROM car_models ORDER BY make, model`)
	if err != nil {
		return nil, fmt.Errorf("list car models: %w", err)
	}
	defer rows.Close()

	var out []models.CarModel
	for rows.Next() {
		var m models.CarModel
		if err := rows.Scan(&m.ID, &m.Make, &m.Model, &m.Class, &m.BasePrice, &m.Image, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan car model: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *CatalogStore) CreateVariant(ctx context.Context, v *models.CarVariant) error {
	v.ID = uuid.NewString()
	_, err := s.db.Exec(ctx, `
		INSERT INTO car_variants (id, model_id, name, motor_template_id, gearbox_template_id,
			suspension_template_id, angle_kit_template_id, differential_template_id, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.ModelID, v.Name, v.MotorTemplateID, v.GearboxTemplateID,
		v.SuspensionTemplateID, v.AngleKitTemplateID, v.DifferentialTemplateID, v.Price)
	if err != nil {
		return fmt.Errorf("insert car variant: %w", err)
	}
	return nil
}

func (s *CatalogStore) GetVariant(ctx context.Context, id string) (*models.CarVariant, error) {
	var v models.CarVariant
	err := s.db.QueryRow(ctx, `
		SELECT id, model_id, name, motor_template_id, gearbox_template_id,
			suspension_template_id, angle_kit_template_id, differential_template_id, price
		FROM car_variants WHERE id = $1`, id,
	).Scan(&v.ID, &v.ModelID, &v.Name, &v.MotorTemplateID, &v.GearboxTemplateID,
		&v.SuspensionTemplateID, &v.AngleKitTemplateID, &v.DifferentialTemplateID, &v.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get car variant: %w", err)
	}
	return &v, nil
}

func (s *CatalogStore) CreatePart(ctx context.Context, p *models.PartCatalog) error {
	p.ID = uuid.NewString()
	raw, err := compat.Marshal(p.Compatibility)
	if err != nil {
		return fmt.Errorf("marshal compatibility: %w", err)
	}
	err = s.db.QueryRow(ctx, `
		INSERT INTO part_catalog (id, name, type, price, max_durability, break_coefficient, compatibility, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		p.ID, p.Name, p.Type, p.Price, p.MaxDurability, p.BreakCoefficient, raw, p.Image,
	).Scan(&p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert part blueprint: %w", err)
	}
	return nil
}

func scanPartCatalog(row pgx.Row) (*models.PartCatalog, error) {
	var p models.PartCatalog
	var rawCompat string
	err := row.Scan(&p.ID, &p.Name, &p.Type, &p.Price, &p.MaxDurability,
		&p.BreakCoefficient, &rawCompat, &p.Image, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan part blueprint: %w", err)
	}
	p.Compatibility = compat.Parse(rawCompat)
	return &p, nil
}

const partCatalogColumns = `id, name, type, price, max_durability, break_coefficient, compatibility, image, created_at`

func (s *CatalogStore) GetPart(ctx context.Context, id string) (*models.PartCatalog, error) {
	return scanPartCatalog(s.db.QueryRow(ctx,
		`SELECT `+partCatalogColumns+` FROM part_catalog WHERE id = $1`, id))
}

func (s *CatalogStore) ListParts(ctx context.Context) ([]models.PartCatalog, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+partCatalogColumns+` FROM part_catalog ORDER BY type, name`)
	if err != nil {
		return nil, fmt.Errorf("list part blueprints: %w", err)
	}
	defer rows.Close()

	var out []models.PartCatalog
	for rows.Next() {
		p, err := scanPartCatalog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *CatalogStore) CreateUpgrade(ctx context.Context, u *models.UpgradeCatalog) error {
	u.ID = uuid.NewString()
	err := s.db.QueryRow(ctx, `
		INSERT INTO upgrade_catalog (id, base_part_id, name, price)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		u.ID, u.BasePartID, u.Name, u.Price,
	).Scan(&u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert upgrade blueprint: %w", err)
	}
	return nil
}

func (s *CatalogStore) GetUpgrade(ctx context.Context, id string) (*models.UpgradeCatalog, error) {
	var u models.UpgradeCatalog
	err := s.db.QueryRow(ctx, `
		SELECT id, base_part_id, name, price, created_at
		FROM upgrade_catalog WHERE id = $1`, id,
	).Scan(&u.ID, &u.BasePartID, &u.Name, &u.Price, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get upgrade blueprint: %w", err)
	}
	return &u, nil
}
