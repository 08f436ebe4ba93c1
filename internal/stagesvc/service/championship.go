package service

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/comm"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// ChampionshipService keeps the season-long score table and settles it when
// the last stage closes.
type ChampionshipService struct {
	pool *pgxpool.Pool
}

func NewChampionshipService(pool *pgxpool.Pool) *ChampionshipService {
	return &ChampionshipService{pool: pool}
}

// Create opens a championship with a zeroed score row for every team
// currently in the serie.
func (s *ChampionshipService) Create(ctx context.Context, name, serie string, plannedStages int) (*models.Championship, error) {
	var champ *models.Championship
	err := store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		var err error
		champ, err = store.NewChampionshipStore(tx).Create(ctx, name, serie, plannedStages)
		return err
	})
	return champ, err
}

// rankRow is the input of the pure ranking step.
type rankRow struct {
	TeamID   string
	TeamName string
	Points   int
}

// denseRank assigns placements over rows already sorted by points
// descending then name. Equal points share a placement; the next distinct
// score takes the following rank, not a gap.
func denseRank(rows []rankRow) []comm.StandingRow {
	out := make([]comm.StandingRow, len(rows))
	place := 0
	prevPoints := 0
	for i, r := range rows {
		if i == 0 || r.Points != prevPoints {
			place++
			prevPoints = r.Points
		}
		out[i] = comm.StandingRow{
			TeamID:    r.TeamID,
			TeamName:  r.TeamName,
			Points:    r.Points,
			Placement: place,
		}
	}
	return out
}

// Standings returns the current table, dense-ranked.
func (s *ChampionshipService) Standings(ctx context.Context, championshipID string) ([]comm.StandingRow, error) {
	scores, err := store.NewChampionshipStore(s.pool).Scores(ctx, championshipID)
	if err != nil {
		return nil, err
	}
	rows := make([]rankRow, len(scores))
	for i, sc := range scores {
		rows[i] = rankRow{TeamID: sc.TeamID, TeamName: sc.TeamName, Points: sc.Points}
	}
	return denseRank(rows), nil
}

// TeamPoints returns one team's accumulated points in the championship.
func (s *ChampionshipService) TeamPoints(ctx context.Context, championshipID, teamID string) (int, error) {
	return store.NewChampionshipStore(s.pool).PointsFor(ctx, championshipID, teamID)
}

// Finalise freezes placements and pays the configured prizes for the first
// five places. Finalising twice is a no-op.
func (s *ChampionshipService) Finalise(ctx context.Context, championshipID string) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return finaliseChampionshipTx(ctx, newStores(tx), championshipID)
	})
}

// finaliseChampionshipTx runs placements, prizes and the status flip as one
// unit so a crash can never leave the table frozen but the prizes unpaid.
func finaliseChampionshipTx(ctx context.Context, st *stores, championshipID string) error {
	champ, err := st.championships.GetByID(ctx, championshipID)
	if err != nil {
		return err
	}
	if champ.Status == models.ChampionshipFinished {
		return nil
	}
	scores, err := st.championships.Scores(ctx, championshipID)
	if err != nil {
		return err
	}
	rows := make([]rankRow, len(scores))
	for i, sc := range scores {
		rows[i] = rankRow{TeamID: sc.TeamID, TeamName: sc.TeamName, Points: sc.Points}
	}
	ranked := denseRank(rows)
	for _, r := range ranked {
		if err := st.championships.SetPlacement(ctx, championshipID, r.TeamID, r.Placement); err != nil {
			return err
		}
	}
	for _, r := range ranked {
		if r.Placement > 5 {
			break
		}
		prize, err := st.configs.ChampionshipPrize(ctx, r.Placement)
		if err != nil {
			return err
		}
		if prize.IsZero() {
			continue
		}
		if err := creditPrizeTx(ctx, st, r.TeamID, prize); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{
			"championship_id": championshipID,
			"team_id":         r.TeamID,
			"placement":       r.Placement,
			"prize":           prize.StringFixed(2),
		}).Info("championship prize paid")
	}
	return st.championships.SetStatus(ctx, championshipID, models.ChampionshipFinished)
}
