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

type ParticipationStore struct {
	db DBTX
}

func NewParticipationStore(db DBTX) *ParticipationStore {
	return &ParticipationStore{db: db}
}

const participationColumns = `id, stage_id, team_id, car_id, piloto_id, tipo, status, qual_order, created_at`

func scanParticipation(row pgx.Row) (*models.Participation, error) {
	var p models.Participation
	err := row.Scan(&p.ID, &p.StageID, &p.TeamID, &p.CarID, &p.PilotoID,
		&p.Type, &p.Status, &p.QualOrder, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan participation: %w", err)
	}
	return &p, nil
}

// ErrDuplicateParticipation marks a second inscription of the same team on
// one stage.
var ErrDuplicateParticipation = errors.New("team already inscribed on stage")

func (s *ParticipationStore) Create(ctx context.Context, p *models.Participation) error {
	p.ID = uuid.NewString()
	if p.Status == "" {
		p.Status = models.ParticipationInscribed
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO participations (id, stage_id, team_id, car_id, piloto_id, tipo, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		p.ID, p.StageID, p.TeamID, p.CarID, p.PilotoID, p.Type, p.Status,
	).Scan(&p.CreatedAt)
	if IsUniqueViolation(err, "unique_stage_team") {
		return ErrDuplicateParticipation
	}
	if err != nil {
		return fmt.Errorf("insert participation: %w", err)
	}
	return nil
}

func (s *ParticipationStore) GetByStageAndTeam(ctx context.Context, stageID, teamID string) (*models.Participation, error) {
	return scanParticipation(s.db.QueryRow(ctx, `
		SELECT `+participationColumns+` FROM participations
		WHERE stage_id = $1 AND team_id = $2`, stageID, teamID))
}

func (s *ParticipationStore) ListByStage(ctx context.Context, stageID string) ([]models.Participation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+participationColumns+` FROM participations
		WHERE stage_id = $1 ORDER BY created_at`, stageID)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}
	defer rows.Close()

	var out []models.Participation
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SetPiloto assigns (or clears, with nil) the designated piloto.
func (s *ParticipationStore) SetPiloto(ctx context.Context, id string, pilotoID *string) error {
	tipo := models.ParticipationNeedsPiloto
	if pilotoID != nil {
		tipo = models.ParticipationHasPiloto
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE participations SET piloto_id = $2, tipo = $3 WHERE id = $1`, id, pilotoID, tipo)
	if err != nil {
		return fmt.Errorf("set participation piloto: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *ParticipationStore) SetQualOrder(ctx context.Context, id string, order int) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE participations SET qual_order = $2 WHERE id = $1`, id, order)
	if err != nil {
		return fmt.Errorf("set qual order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
