package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

func seedTeam(f *fakeState, id, serie string, doricoins, saldoPix int64) *models.Team {
	t := &models.Team{
		ID:        id,
		Name:      "Equipe " + id,
		Serie:     serie,
		Doricoins: dec(doricoins),
		SaldoPix:  dec(saldoPix),
	}
	f.teams[id] = t
	return t
}

// seedReadyCar plants an active car with all four mandatory slots filled.
func seedReadyCar(f *fakeState, teamID string) *models.Car {
	car := &models.Car{
		ID:      f.nextID("car"),
		TeamID:  teamID,
		ModelID: "model-1",
		Status:  models.CarStatusActive,
	}
	f.cars[car.ID] = car
	for _, slot := range models.MandatorySlots {
		cat := &models.PartCatalog{
			ID:            f.nextID("cat"),
			Name:          slot,
			Type:          slot,
			Price:         dec(800),
			MaxDurability: dec(100),
		}
		f.partCatalog[cat.ID] = cat
		p := &models.Part{
			ID:            f.nextID("part"),
			TeamID:        teamID,
			Installed:     true,
			Durability:    dec(100),
			MaxDurability: dec(100),
			CarID:         sql.NullString{String: car.ID, Valid: true},
			CatalogID:     sql.NullString{String: cat.ID, Valid: true},
		}
		f.parts[p.ID] = p
	}
	return car
}

func seedScheduledStage(f *fakeState, id, serie string) *models.Stage {
	st := &models.Stage{
		ID:             id,
		ChampionshipID: "champ-1",
		Serie:          serie,
		Status:         models.StageScheduled,
	}
	f.stages[id] = st
	return st
}

func TestInscribeTeamDebitsFeeAndWritesParticipation(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 2000)
	car := seedReadyCar(f, "team-1")
	seedScheduledStage(f, "stage-1", "A")

	res, err := inscribeTeamTx(ctx, st, "stage-1", "team-1", models.ParticipationOwnerDrives)
	require.NoError(t, err)
	require.NotNil(t, res.Participation)
	assert.Equal(t, car.ID, res.Participation.CarID)
	assert.Nil(t, res.Settlement)

	part, err := st.participations.GetByStageAndTeam(ctx, "stage-1", "team-1")
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationOwnerDrives, part.Type)
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(1000)))
}

func TestInscribeTeamFloorBreachRefusesSlot(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	// fee 1000 against 979 lands at -21, one past the -20 floor
	seedTeam(f, "team-1", "A", 0, 979)
	car := seedReadyCar(f, "team-1")
	seedScheduledStage(f, "stage-1", "A")

	res, err := inscribeTeamTx(ctx, st, "stage-1", "team-1", models.ParticipationNeedsPiloto)
	reg, ok := apperr.RequiresRegularisation(err)
	require.True(t, ok)
	assert.True(t, reg.Settlement.Equal(dec(21)))

	require.NotNil(t, res)
	require.NotNil(t, res.Settlement)
	assert.Equal(t, models.PixKindInscription, res.Settlement.Kind)
	assert.Equal(t, car.ID, res.Settlement.CarID.String)
	assert.Nil(t, res.Participation)

	// nothing was inscribed and the balance stayed put
	_, err = st.participations.GetByStageAndTeam(ctx, "stage-1", "team-1")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(979)))
}

func TestInscribeTeamAcceptsContractedSeat(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 5000)
	seedReadyCar(f, "team-1")
	seedScheduledStage(f, "stage-1", "A")

	res, err := inscribeTeamTx(ctx, st, "stage-1", "team-1", models.ParticipationHasPiloto)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationHasPiloto, res.Participation.Type)
}

func TestInscribeTeamRejectsUnknownType(t *testing.T) {
	st, _ := newFakeStores()
	_, err := inscribeTeamTx(context.Background(), st, "stage-1", "team-1", "convidado")
	assert.Error(t, err)
}

func TestCandidateOwnerDrivenSeatRejected(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	f.participations["p1"] = &models.Participation{
		ID: "p1", StageID: "stage-1", TeamID: "team-1",
		Type: models.ParticipationOwnerDrives,
	}

	_, err := candidateTx(ctx, st, "stage-1", "team-1", "piloto-1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestCandidateContractedSeatRequiresLink(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	f.participations["p1"] = &models.Participation{
		ID: "p1", StageID: "stage-1", TeamID: "team-1",
		Type: models.ParticipationHasPiloto,
	}

	_, err := candidateTx(ctx, st, "stage-1", "team-1", "piloto-1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	f.links["piloto-1|team-1"] = true
	cand, err := candidateTx(ctx, st, "stage-1", "team-1", "piloto-1")
	require.NoError(t, err)
	assert.Equal(t, models.CandidateStatusPending, cand.Status)
}

func TestCandidateOpenSeatTakesUnlinkedPiloto(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	f.participations["p1"] = &models.Participation{
		ID: "p1", StageID: "stage-1", TeamID: "team-1",
		Type: models.ParticipationNeedsPiloto,
	}

	cand, err := candidateTx(ctx, st, "stage-1", "team-1", "piloto-9")
	require.NoError(t, err)
	assert.Equal(t, "piloto-9", cand.PilotoID)
}
