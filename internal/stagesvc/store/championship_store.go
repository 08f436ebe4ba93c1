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

type ChampionshipStore struct {
	db DBTX
}

func NewChampionshipStore(db DBTX) *ChampionshipStore {
	return &ChampionshipStore{db: db}
}

func (s *ChampionshipStore) Create(ctx context.Context, name, serie string, plannedStages int) (*models.Championship, error) {
	c := &models.Championship{
		ID:            uuid.NewString(),
		Name:          name,
		Serie:         serie,
		PlannedStages: plannedStages,
		Status:        models.ChampionshipOngoing,
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO championships (id, name, serie, planned_stages)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		c.ID, name, serie, plannedStages,
	).Scan(&c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert championship: %w", err)
	}
	// zeroed score rows for every team currently in the serie
	_, err = s.db.Exec(ctx, `
		INSERT INTO championship_scores (championship_id, team_id)
		SELECT $1, id FROM teams WHERE serie = $2`,
		c.ID, serie)
	if err != nil {
		return nil, fmt.Errorf("seed championship scores: %w", err)
	}
	return c, nil
}

func (s *ChampionshipStore) GetByID(ctx context.Context, id string) (*models.Championship, error) {
	var c models.Championship
	err := s.db.QueryRow(ctx, `
		SELECT id, name, serie, planned_stages, status, created_at
		FROM championships WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Serie, &c.PlannedStages, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get championship: %w", err)
	}
	return &c, nil
}

// PreviousFinished returns the most recent finished championship of the
// serie, excluding the given one.
func (s *ChampionshipStore) PreviousFinished(ctx context.Context, serie, excludeID string) (*models.Championship, error) {
	var c models.Championship
	err := s.db.QueryRow(ctx, `
		SELECT id, name, serie, planned_stages, status, created_at
		FROM championships
		WHERE serie = $1 AND status = 'finished' AND id <> $2
		ORDER BY created_at DESC
		LIMIT 1`, serie, excludeID,
	).Scan(&c.ID, &c.Name, &c.Serie, &c.PlannedStages, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get previous championship: %w", err)
	}
	return &c, nil
}

func (s *ChampionshipStore) SetStatus(ctx context.Context, id, status string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE championships SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update championship status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// AddPoints credits stage points; teams that joined the serie after the
// championship was created get their score row on first accrual.
func (s *ChampionshipStore) AddPoints(ctx context.Context, championshipID, teamID string, points int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO championship_scores (championship_id, team_id, points)
		VALUES ($1, $2, $3)
		ON CONFLICT (championship_id, team_id)
		DO UPDATE SET points = championship_scores.points + EXCLUDED.points`,
		championshipID, teamID, points)
	if err != nil {
		return fmt.Errorf("add championship points: %w", err)
	}
	return nil
}

func (s *ChampionshipStore) SetPlacement(ctx context.Context, championshipID, teamID string, placement int) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE championship_scores SET placement = $3
		WHERE championship_id = $1 AND team_id = $2`,
		championshipID, teamID, placement)
	if err != nil {
		return fmt.Errorf("set championship placement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ScoreRow pairs a score with the team name so standings can break point
// ties deterministically.
type ScoreRow struct {
	TeamID    string
	TeamName  string
	Points    int
	Placement int
}

func (s *ChampionshipStore) Scores(ctx context.Context, championshipID string) ([]ScoreRow, error) {
	rows, err := s.db.Query(ctx, `
		SELECT cs.team_id, t.name, cs.points, cs.placement
		FROM championship_scores cs
		JOIN teams t ON t.id = cs.team_id
		WHERE cs.championship_id = $1
		ORDER BY cs.points DESC, t.name`, championshipID)
	if err != nil {
		return nil, fmt.Errorf("list championship scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRow
	for rows.Next() {
		var r ScoreRow
		if err := rows.Scan(&r.TeamID, &r.TeamName, &r.Points, &r.Placement); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PointsFor returns a single team's points, zero when no row exists.
func (s *ChampionshipStore) PointsFor(ctx context.Context, championshipID, teamID string) (int, error) {
	var points int
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(
			(SELECT points FROM championship_scores WHERE championship_id = $1 AND team_id = $2), 0)`,
		championshipID, teamID,
	).Scan(&points)
	if err != nil {
		return 0, fmt.Errorf("get championship points: %w", err)
	}
	return points, nil
}
