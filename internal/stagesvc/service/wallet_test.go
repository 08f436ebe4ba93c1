package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func TestStageFeeOutcomeDebitsWithinFloor(t *testing.T) {
	out := stageFeeOutcome(dec(1500), dec(1000), dec(-20))
	assert.False(t, out.Regularise)
	assert.True(t, out.NewBalance.Equal(dec(500)))
}

func TestStageFeeOutcomeAllowsFloorExactly(t *testing.T) {
	// balance of fee-20 lands exactly on the floor
	out := stageFeeOutcome(dec(980), dec(1000), dec(-20))
	assert.False(t, out.Regularise)
	assert.True(t, out.NewBalance.Equal(dec(-20)))
}

func TestStageFeeOutcomeFloorBreach(t *testing.T) {
	out := stageFeeOutcome(dec(979), dec(1000), dec(-20))
	assert.True(t, out.Regularise)
	assert.True(t, out.Settlement.Equal(dec(21)))
	assert.True(t, out.NewBalance.Equal(dec(979)))
}

func TestStageFeeOutcomeDebtCarryOver(t *testing.T) {
	// already down a full fee: settlement covers the debt plus the new fee
	out := stageFeeOutcome(dec(-1000), dec(1000), dec(-20))
	assert.True(t, out.Regularise)
	assert.True(t, out.Settlement.Equal(dec(2000)))
}

func TestStageFeeOutcomeNegativeBalanceWithinFloor(t *testing.T) {
	out := stageFeeOutcome(dec(-5), dec(1000), dec(-20))
	assert.True(t, out.Regularise)
	assert.True(t, out.Settlement.Equal(dec(1005)))
}

func TestCreditPrizeLandsOnPixBalance(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 50, 200)

	require.NoError(t, creditPrizeTx(ctx, st, "team-1", dec(10000)))

	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(10200)))
	assert.True(t, f.teams["team-1"].Doricoins.Equal(dec(50)))
}

func TestCreditPrizeZeroIsNoOp(t *testing.T) {
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 200)

	require.NoError(t, creditPrizeTx(ctx, st, "team-1", dec(0)))
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(200)))
}

func TestCreditPrizeRejectsNegative(t *testing.T) {
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, 200)

	err := creditPrizeTx(context.Background(), st, "team-1", dec(-5))
	assert.Error(t, err)
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(200)))
}

func TestCreditSaldoPixIgnoresFloor(t *testing.T) {
	// credits never floor-check, even on a deeply negative balance
	ctx := context.Background()
	st, f := newFakeStores()
	seedTeam(f, "team-1", "A", 0, -5000)

	require.NoError(t, creditSaldoPixTx(ctx, st, "team-1", dec(100)))
	assert.True(t, f.teams["team-1"].SaldoPix.Equal(dec(-4900)))
}
