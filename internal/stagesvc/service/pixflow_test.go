package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/models"
)

func TestConfirmSettlementInscribesTeam(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 979)
	car := seedReadyCar(f, "team-1")
	seedScheduledStage(f, "stage-1", "A")

	res, err := inscribeTeamTx(ctx, st, "stage-1", "team-1", models.ParticipationNeedsPiloto)
	_, ok := apperr.RequiresRegularisation(err)
	require.True(t, ok)

	require.NoError(t, confirmPixTx(ctx, st, res.Settlement.ID))

	// settlement covered the 21 owed, then the 1000 fee came out
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(0)))

	part, err := st.participations.GetByStageAndTeam(ctx, "stage-1", "team-1")
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationNeedsPiloto, part.Type)
	assert.Equal(t, car.ID, part.CarID)
}

func TestConfirmSettlementTwiceIsHarmless(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 979)
	seedReadyCar(f, "team-1")
	seedScheduledStage(f, "stage-1", "A")

	res, _ := inscribeTeamTx(ctx, st, "stage-1", "team-1", models.ParticipationOwnerDrives)
	require.NoError(t, confirmPixTx(ctx, st, res.Settlement.ID))
	require.NoError(t, confirmPixTx(ctx, st, res.Settlement.ID))

	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(0)))
	assert.Len(t, f.participations, 1)
}

func TestConfirmTopupCreditsBalance(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 100)
	pixTx := &models.PixTransaction{
		TeamID:     "team-1",
		Kind:       models.PixKindTopup,
		ItemID:     "team-1",
		ItemAmount: dec(500),
	}
	require.NoError(t, st.pixTx.Create(ctx, pixTx))

	require.NoError(t, confirmPixTx(ctx, st, pixTx.ID))
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(600)))
}

func TestConfirmCancelledTransactionFails(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 100)
	pixTx := &models.PixTransaction{
		TeamID:     "team-1",
		Kind:       models.PixKindTopup,
		ItemID:     "team-1",
		ItemAmount: dec(500),
	}
	require.NoError(t, st.pixTx.Create(ctx, pixTx))
	require.NoError(t, st.pixTx.MarkCancelled(ctx, pixTx.ID))

	err := confirmPixTx(ctx, st, pixTx.ID)
	assert.ErrorIs(t, err, apperr.ErrStageNotInPhase)
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(100)))
}
