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

type TeamStore struct {
	db DBTX
}

func NewTeamStore(db DBTX) *TeamStore {
	return &TeamStore{db: db}
}

func (s *TeamStore) Create(ctx context.Context, name, serie string) (*models.Team, error) {
	team := &models.Team{ID: uuid.NewString(), Name: name, Serie: serie}
	err := s.db.QueryRow(ctx, `
		INSERT INTO teams (id, name, serie)
		VALUES ($1, $2, $3)
		RETURNING doricoins, saldo_pix, created_at, updated_at`,
		team.ID, name, serie,
	).Scan(&team.Doricoins, &team.SaldoPix, &team.CreatedAt, &team.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	return team, nil
}

const teamColumns = `id, name, serie, doricoins, saldo_pix, invite_code, created_at, updated_at`

func (s *TeamStore) scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.Serie, &t.Doricoins, &t.SaldoPix,
		&t.InviteCode, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan team: %w", err)
	}
	return &t, nil
}

func (s *TeamStore) GetByID(ctx context.Context, id string) (*models.Team, error) {
	return s.scanTeam(s.db.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id))
}

// GetForUpdate locks the team row. Call inside a transaction.
func (s *TeamStore) GetForUpdate(ctx context.Context, id string) (*models.Team, error) {
	return s.scanTeam(s.db.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1 FOR UPDATE`, id))
}

func (s *TeamStore) GetByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	return s.scanTeam(s.db.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE invite_code = $1`, code))
}

func (s *TeamStore) ListBySerie(ctx context.Context, serie string) ([]models.Team, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE serie = $1 ORDER BY name`, serie)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Serie, &t.Doricoins, &t.SaldoPix,
			&t.InviteCode, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *TeamStore) UpdateDoricoins(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE teams SET doricoins = $2, updated_at = now() WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update doricoins: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *TeamStore) UpdateSaldoPix(ctx context.Context, id string, balance decimal.Decimal) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE teams SET saldo_pix = $2, updated_at = now() WHERE id = $1`, id, balance)
	if err != nil {
		return fmt.Errorf("update saldo pix: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *TeamStore) SetInviteCode(ctx context.Context, id, code string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE teams SET invite_code = $2, updated_at = now() WHERE id = $1`, id, code)
	if err != nil {
		return fmt.Errorf("set invite code: %w", err)
	}
	return nil
}
