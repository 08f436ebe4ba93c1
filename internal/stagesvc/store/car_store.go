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

type CarStore struct {
	db DBTX
}

func NewCarStore(db DBTX) *CarStore {
	return &CarStore{db: db}
}

const carColumns = `id, model_id, variant_id, team_id, serial_number, nickname, status,
	activated_at, rested_at, wins, losses, draws, battles, created_at, updated_at`

func scanCar(row pgx.Row) (*models.Car, error) {
	var c models.Car
	err := row.Scan(&c.ID, &c.ModelID, &c.VariantID, &c.TeamID, &c.SerialNumber,
		&c.Nickname, &c.Status, &c.ActivatedAt, &c.RestedAt,
		&c.Wins, &c.Losses, &c.Draws, &c.Battles, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan car: %w", err)
	}
	return &c, nil
}

// Create inserts a car with the next serial number for the team. Serial
// assignment relies on the team row being locked by the caller.
func (s *CarStore) Create(ctx context.Context, teamID, modelID, variantID, nickname string) (*models.Car, error) {
	car := &models.Car{
		ID:        uuid.NewString(),
		ModelID:   modelID,
		VariantID: variantID,
		TeamID:    teamID,
		Nickname:  nickname,
		Status:    models.CarStatusResting,
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO cars (id, model_id, variant_id, team_id, serial_number, nickname)
		SELECT $1, $2, $3, $4, COALESCE(MAX(serial_number), 0) + 1, $5
		FROM cars WHERE team_id = $4
		RETURNING serial_number, created_at, updated_at`,
		car.ID, modelID, variantID, teamID, nickname,
	).Scan(&car.SerialNumber, &car.CreatedAt, &car.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert car: %w", err)
	}
	return car, nil
}

func (s *CarStore) GetByID(ctx context.Context, id string) (*models.Car, error) {
	return scanCar(s.db.QueryRow(ctx,
		`SELECT `+carColumns+` FROM cars WHERE id = $1`, id))
}

func (s *CarStore) GetForUpdate(ctx context.Context, id string) (*models.Car, error) {
	return scanCar(s.db.QueryRow(ctx,
		`SELECT `+carColumns+` FROM cars WHERE id = $1 FOR UPDATE`, id))
}

// GetActiveByTeam returns the team's single active car, or ErrNotFound.
func (s *CarStore) GetActiveByTeam(ctx context.Context, teamID string) (*models.Car, error) {
	return scanCar(s.db.QueryRow(ctx,
		`SELECT `+carColumns+` FROM cars WHERE team_id = $1 AND status = 'ativo'`, teamID))
}

func (s *CarStore) ListByTeam(ctx context.Context, teamID string) ([]models.Car, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+carColumns+` FROM cars WHERE team_id = $1 ORDER BY serial_number`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	defer rows.Close()

	var cars []models.Car
	for rows.Next() {
		var c models.Car
		if err := rows.Scan(&c.ID, &c.ModelID, &c.VariantID, &c.TeamID, &c.SerialNumber,
			&c.Nickname, &c.Status, &c.ActivatedAt, &c.RestedAt,
			&c.Wins, &c.Losses, &c.Draws, &c.Battles, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan car: %w", err)
		}
		cars = append(cars, c)
	}
	return cars, rows.Err()
}

func (s *CarStore) Activate(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE cars SET status = 'ativo', activated_at = now(), updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("activate car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *CarStore) Rest(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE cars SET status = 'repouso', rested_at = now(), updated_at = now()
		WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("rest car: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// RecordBattle bumps the battle counter plus exactly one of wins/losses/draws.
func (s *CarStore) RecordBattle(ctx context.Context, id string, won, drew bool) error {
	win, loss, draw := 0, 0, 0
	switch {
	case drew:
		draw = 1
	case won:
		win = 1
	default:
		loss = 1
	}
	_, err := s.db.Exec(ctx, `
		UPDATE cars SET battles = battles + 1, wins = wins + $2,
			losses = losses + $3, draws = draws + $4, updated_at = now()
		WHERE id = $1`, id, win, loss, draw)
	if err != nil {
		return fmt.Errorf("record battle: %w", err)
	}
	return nil
}
