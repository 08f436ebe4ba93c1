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

type MatchStore struct {
	db DBTX
}

func NewMatchStore(db DBTX) *MatchStore {
	return &MatchStore{db: db}
}

const matchColumns = `id, stage_id, round, round_ordinal, slot, team_a_id, team_b_id, winner_id, created_at`

func scanMatch(row pgx.Row) (*models.Match, error) {
	var m models.Match
	err := row.Scan(&m.ID, &m.StageID, &m.Round, &m.RoundOrdinal, &m.Slot,
		&m.TeamAID, &m.TeamBID, &m.WinnerID, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan match: %w", err)
	}
	return &m, nil
}

// CreateRound inserts the pairings of one generated round.
func (s *MatchStore) CreateRound(ctx context.Context, matches []models.Match) error {
	for i := range matches {
		m := &matches[i]
		m.ID = uuid.NewString()
		err := s.db.QueryRow(ctx, `
			INSERT INTO matches (id, stage_id, round, round_ordinal, slot, team_a_id, team_b_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING created_at`,
			m.ID, m.StageID, m.Round, m.RoundOrdinal, m.Slot, m.TeamAID, m.TeamBID,
		).Scan(&m.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
	}
	return nil
}

func (s *MatchStore) GetByID(ctx context.Context, id string) (*models.Match, error) {
	return scanMatch(s.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
}

func (s *MatchStore) GetForUpdate(ctx context.Context, id string) (*models.Match, error) {
	return scanMatch(s.db.QueryRow(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id))
}

func (s *MatchStore) ListByStage(ctx context.Context, stageID string) ([]models.Match, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE stage_id = $1 ORDER BY round_ordinal, slot`, stageID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// ListRound returns the matches of the highest round ordinal for the stage.
func (s *MatchStore) ListLatestRound(ctx context.Context, stageID string) ([]models.Match, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+matchColumns+` FROM matches
		WHERE stage_id = $1
		  AND round_ordinal = (SELECT COALESCE(MAX(round_ordinal), 0) FROM matches WHERE stage_id = $1)
		ORDER BY slot`, stageID)
	if err != nil {
		return nil, fmt.Errorf("list latest round: %w", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *MatchStore) SetWinner(ctx context.Context, id, winnerID string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE matches SET winner_id = $2 WHERE id = $1`, id, winnerID)
	if err != nil {
		return fmt.Errorf("set match winner: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
