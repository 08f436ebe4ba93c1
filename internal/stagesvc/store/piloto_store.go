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

type PilotoStore struct {
	db DBTX
}

func NewPilotoStore(db DBTX) *PilotoStore {
	return &PilotoStore{db: db}
}

func (s *PilotoStore) Create(ctx context.Context, name, passwordHash string) (*models.Piloto, error) {
	p := &models.Piloto{ID: uuid.NewString(), Name: name, PasswordHash: passwordHash}
	err := s.db.QueryRow(ctx, `
		INSERT INTO pilotos (id, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		p.ID, name, passwordHash,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert piloto: %w", err)
	}
	return p, nil
}

func (s *PilotoStore) GetByID(ctx context.Context, id string) (*models.Piloto, error) {
	var p models.Piloto
	err := s.db.QueryRow(ctx, `
		SELECT id, name, password_hash, wins, losses, draws, created_at
		FROM pilotos WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.PasswordHash, &p.Wins, &p.Losses, &p.Draws, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get piloto: %w", err)
	}
	return &p, nil
}

// CreateLink binds a piloto to the team whose invite code was redeemed.
func (s *PilotoStore) CreateLink(ctx context.Context, pilotoID, teamID, inviteCode string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO piloto_team_links (piloto_id, team_id, invite_code)
		VALUES ($1, $2, $3)
		ON CONFLICT (piloto_id, team_id)
		DO UPDATE SET status = 'active', invite_code = EXCLUDED.invite_code`,
		pilotoID, teamID, inviteCode)
	if err != nil {
		return fmt.Errorf("insert piloto link: %w", err)
	}
	return nil
}

// HasActiveLink reports whether the piloto is linked to the team.
func (s *PilotoStore) HasActiveLink(ctx context.Context, pilotoID, teamID string) (bool, error) {
	var ok bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM piloto_team_links
			WHERE piloto_id = $1 AND team_id = $2 AND status = 'active'
		)`, pilotoID, teamID,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("check piloto link: %w", err)
	}
	return ok, nil
}

func (s *PilotoStore) RevokeLink(ctx context.Context, pilotoID, teamID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE piloto_team_links SET status = 'revoked'
		WHERE piloto_id = $1 AND team_id = $2`, pilotoID, teamID)
	if err != nil {
		return fmt.Errorf("revoke piloto link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PilotoStore) ListLinkedPilotos(ctx context.Context, teamID string) ([]models.Piloto, error) {
	rows, err := s.db.Query(ctx, `
		SELECT p.id, p.name, p.password_hash, p.wins, p.losses, p.draws, p.created_at
		FROM pilotos p
		JOIN piloto_team_links l ON l.piloto_id = p.id
		WHERE l.team_id = $1 AND l.status = 'active'
		ORDER BY p.name`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list linked pilotos: %w", err)
	}
	defer rows.Close()

	var out []models.Piloto
	for rows.Next() {
		var p models.Piloto
		if err := rows.Scan(&p.ID, &p.Name, &p.PasswordHash, &p.Wins, &p.Losses, &p.Draws, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan piloto: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateCandidate registers a candidature. The partial unique index rejects a
// second live candidature for the same piloto on the same stage.
func (s *PilotoStore) CreateCandidate(ctx context.Context, stageID, teamID, pilotoID string) (*models.PilotoCandidate, error) {
	c := &models.PilotoCandidate{
		ID:       uuid.NewString(),
		StageID:  stageID,
		TeamID:   teamID,
		PilotoID: pilotoID,
		Status:   models.CandidateStatusPending,
	}
	err := s.db.QueryRow(ctx, `
		INSERT INTO piloto_candidates (id, stage_id, team_id, piloto_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		c.ID, stageID, teamID, pilotoID,
	).Scan(&c.CreatedAt)
	if IsUniqueViolation(err, "unique_live_candidature") {
		return nil, apperr.ErrAlreadyCandidated
	}
	if err != nil {
		return nil, fmt.Errorf("insert candidature: %w", err)
	}
	return c, nil
}

const candidateColumns = `id, stage_id, team_id, piloto_id, status, created_at`

func scanCandidate(row pgx.Row) (*models.PilotoCandidate, error) {
	var c models.PilotoCandidate
	err := row.Scan(&c.ID, &c.StageID, &c.TeamID, &c.PilotoID, &c.Status, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan candidature: %w", err)
	}
	return &c, nil
}

func (s *PilotoStore) GetCandidate(ctx context.Context, id string) (*models.PilotoCandidate, error) {
	return scanCandidate(s.db.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM piloto_candidates WHERE id = $1`, id))
}

// OldestPending returns the earliest pending candidature for the team on the
// stage, locking the row. Call inside a transaction.
func (s *PilotoStore) OldestPending(ctx context.Context, stageID, teamID string) (*models.PilotoCandidate, error) {
	return scanCandidate(s.db.QueryRow(ctx, `
		SELECT `+candidateColumns+` FROM piloto_candidates
		WHERE stage_id = $1 AND team_id = $2 AND status = 'pending'
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE SKIP LOCKED`, stageID, teamID))
}

func (s *PilotoStore) SetCandidateStatus(ctx context.Context, id, status string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE piloto_candidates SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update candidature status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *PilotoStore) ListCandidates(ctx context.Context, stageID, teamID string) ([]models.PilotoCandidate, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+candidateColumns+` FROM piloto_candidates
		WHERE stage_id = $1 AND team_id = $2
		ORDER BY created_at`, stageID, teamID)
	if err != nil {
		return nil, fmt.Errorf("list candidatures: %w", err)
	}
	defer rows.Close()

	var out []models.PilotoCandidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// DesignatedCandidate returns the candidature currently seated for the team
// on the stage, designated or already confirmed.
func (s *PilotoStore) DesignatedCandidate(ctx context.Context, stageID, teamID string) (*models.PilotoCandidate, error) {
	return scanCandidate(s.db.QueryRow(ctx, `
		SELECT `+candidateColumns+` FROM piloto_candidates
		WHERE stage_id = $1 AND team_id = $2 AND status IN ('designated', 'confirmed')`,
		stageID, teamID))
}

// RecordResult bumps the piloto's running battle counters.
func (s *PilotoStore) RecordResult(ctx context.Context, id string, won, drew bool) error {
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
		UPDATE pilotos SET wins = wins + $2, losses = losses + $3, draws = draws + $4
		WHERE id = $1`, id, win, loss, draw)
	if err != nil {
		return fmt.Errorf("record piloto result: %w", err)
	}
	return nil
}
