package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

type StageStore struct {
	db DBTX
}

func NewStageStore(db DBTX) *StageStore {
	return &StageStore{db: db}
}

const stageColumns = `id, championship_id, ordinal, name, stage_date, serie, status, qualification_done, created_at`

func scanStage(row pgx.Row) (*models.Stage, error) {
	var st models.Stage
	err := row.Scan(&st.ID, &st.ChampionshipID, &st.Ordinal, &st.Name, &st.Date,
		&st.Serie, &st.Status, &st.QualificationDone, &st.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan stage: %w", err)
	}
	return &st, nil
}

func (s *StageStore) Create(ctx context.Context, championshipID string, ordinal int, name string, date time.Time, serie string) (*models.Stage, error) {
	st := &models.Stage{
		ID:             uuid.NewString(),
		ChampionshipID: championshipID,
		Ordinal:        ordinal,
		Name:           name,
		Date:           date,
		Serie:          serie,
		Status:         models.StageScheduled,
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO stages (id, championship_id, ordinal, name, stage_date, serie)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		st.ID, championshipID, ordinal, name, date, serie,
	).Scan(&st.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert stage: %w", err)
	}
	return st, nil
}

func (s *StageStore) GetByID(ctx context.Context, id string) (*models.Stage, error) {
	return scanStage(s.db.QueryRow(ctx,
		`SELECT `+stageColumns+` FROM stages WHERE id = $1`, id))
}

// GetForUpdate locks the stage row; lifecycle transitions serialise on it.
func (s *StageStore) GetForUpdate(ctx context.Context, id string) (*models.Stage, error) {
	return scanStage(s.db.QueryRow(ctx,
		`SELECT `+stageColumns+` FROM stages WHERE id = $1 FOR UPDATE`, id))
}

func (s *StageStore) ListByChampionship(ctx context.Context, championshipID string) ([]models.Stage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+stageColumns+` FROM stages WHERE championship_id = $1 ORDER BY ordinal`, championshipID)
	if err != nil {
		return nil, fmt.Errorf("list stages: %w", err)
	}
	defer rows.Close()

	var out []models.Stage
	for rows.Next() {
		st, err := scanStage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *StageStore) SetStatus(ctx context.Context, id, status string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE stages SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update stage status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *StageStore) MarkQualificationDone(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE stages SET qualification_done = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark qualification done: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpsertNote records or replaces a team's qualification attributes.
func (s *StageStore) UpsertNote(ctx context.Context, n *models.QualificationNote) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO qualification_notes (stage_id, team_id, line, angle, style)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (stage_id, team_id)
		DO UPDATE SET line = EXCLUDED.line, angle = EXCLUDED.angle, style = EXCLUDED.style`,
		n.StageID, n.TeamID, n.Line, n.Angle, n.Style)
	if err != nil {
		return fmt.Errorf("upsert qualification note: %w", err)
	}
	return nil
}

func (s *StageStore) ListNotes(ctx context.Context, stageID string) ([]models.QualificationNote, error) {
	rows, err := s.db.Query(ctx, `
		SELECT stage_id, team_id, line, angle, style
		FROM qualification_notes WHERE stage_id = $1`, stageID)
	if err != nil {
		return nil, fmt.Errorf("list qualification notes: %w", err)
	}
	defer rows.Close()

	var out []models.QualificationNote
	for rows.Next() {
		var n models.QualificationNote
		if err := rows.Scan(&n.StageID, &n.TeamID, &n.Line, &n.Angle, &n.Style); err != nil {
			return nil, fmt.Errorf("scan qualification note: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
