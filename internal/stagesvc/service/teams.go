package service

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// TeamService covers team registration and the read side of team state.
type TeamService struct {
	pool *pgxpool.Pool
}

func NewTeamService(pool *pgxpool.Pool) *TeamService {
	return &TeamService{pool: pool}
}

func (s *TeamService) Create(ctx context.Context, name, serie string) (*models.Team, error) {
	return store.NewTeamStore(s.pool).Create(ctx, name, serie)
}

func (s *TeamService) Get(ctx context.Context, id string) (*models.Team, error) {
	return store.NewTeamStore(s.pool).GetByID(ctx, id)
}

func (s *TeamService) ListBySerie(ctx context.Context, serie string) ([]models.Team, error) {
	return store.NewTeamStore(s.pool).ListBySerie(ctx, serie)
}
