package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granpix/granpix-services/internal/stagesvc/domain/bracket"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

// seedFinalOnlyStage plants an in-progress stage with two inscribed teams
// and their final match, unresolved.
func seedFinalOnlyStage(f *fakeState) (stage *models.Stage, match *models.Match) {
	f.championships["champ-1"] = &models.Championship{
		ID: "champ-1", Serie: "A", PlannedStages: 1,
		Status: models.ChampionshipOngoing,
	}
	stage = &models.Stage{
		ID: "stage-1", ChampionshipID: "champ-1", Ordinal: 1,
		Serie: "A", Status: models.StageInProgress, QualificationDone: true,
	}
	f.stages[stage.ID] = stage

	for i, teamID := range []string{"team-a", "team-b"} {
		seedTeam(f, teamID, "A", 0, 1000)
		car := &models.Car{ID: "car-" + teamID, TeamID: teamID, Status: models.CarStatusActive}
		f.cars[car.ID] = car
		p := &models.Participation{
			ID: "part-" + teamID, StageID: stage.ID, TeamID: teamID,
			CarID: car.ID, Type: models.ParticipationOwnerDrives,
			QualOrder: sql.NullInt32{Int32: int32(i + 1), Valid: true},
		}
		f.participations[p.ID] = p
	}

	match = &models.Match{
		ID: "match-1", StageID: stage.ID, Round: bracket.Final,
		RoundOrdinal: 2, Slot: 1, TeamAID: "team-a", TeamBID: "team-b",
	}
	f.matches[match.ID] = match
	return stage, match
}

func TestReportMatchRewardLandsOnPixBalance(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	_, match := seedFinalOnlyStage(f)

	stageID, serie, err := reportMatchTx(ctx, st, match.ID, "team-a")
	require.NoError(t, err)
	assert.Equal(t, "stage-1", stageID)
	assert.Equal(t, "A", serie)

	// the battle reward is pix money, not doricoins
	assert.True(t, f.teams["team-a"].SaldoPix.Equal(dec(1200)))
	assert.True(t, f.teams["team-a"].Doricoins.Equal(dec(0)))
	assert.True(t, f.teams["team-b"].SaldoPix.Equal(dec(1000)))
	assert.Equal(t, 1, f.cars["car-team-a"].Wins)
	assert.Equal(t, 1, f.cars["car-team-b"].Losses)
}

func TestReportMatchFirstRoundPaysNoReward(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	_, match := seedFinalOnlyStage(f)
	match.Round = bracket.Top4
	match.RoundOrdinal = 1

	_, _, err := reportMatchTx(ctx, st, match.ID, "team-a")
	require.NoError(t, err)
	assert.True(t, f.teams["team-a"].SaldoPix.Equal(dec(1000)))
}

func TestReportMatchRejectsOutsideTeam(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	_, match := seedFinalOnlyStage(f)

	_, _, err := reportMatchTx(ctx, st, match.ID, "team-z")
	assert.Error(t, err)
}

func TestFinaliseStageAccruesPointsAndFlagsLastStage(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	stage, match := seedFinalOnlyStage(f)
	match.WinnerID = sql.NullString{String: "team-a", Valid: true}

	championshipID, serie, lastStage, err := finaliseStageTx(ctx, st, stage.ID)
	require.NoError(t, err)
	assert.Equal(t, "champ-1", championshipID)
	assert.Equal(t, "A", serie)
	assert.True(t, lastStage)

	assert.Equal(t, models.StageFinished, stage.Status)
	assert.Equal(t, bracket.PointsForPlacement(1), f.points["champ-1"]["team-a"])
	assert.Equal(t, bracket.PointsForPlacement(2), f.points["champ-1"]["team-b"])
}

func TestFinaliseStageReplayStillReportsLastStage(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	stage, match := seedFinalOnlyStage(f)
	match.WinnerID = sql.NullString{String: "team-a", Valid: true}

	_, _, _, err := finaliseStageTx(ctx, st, stage.ID)
	require.NoError(t, err)

	// a replay on the finished stage must not double the points but must
	// still say this was the championship's last stage
	_, _, lastStage, err := finaliseStageTx(ctx, st, stage.ID)
	require.NoError(t, err)
	assert.True(t, lastStage)
	assert.Equal(t, bracket.PointsForPlacement(1), f.points["champ-1"]["team-a"])
}

func TestFinaliseStageRefusesUnresolvedBracket(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	stage, _ := seedFinalOnlyStage(f)

	_, _, _, err := finaliseStageTx(ctx, st, stage.ID)
	assert.Error(t, err)
	assert.Equal(t, models.StageInProgress, stage.Status)
}
