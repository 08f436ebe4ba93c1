package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/granpix/granpix-services/internal/stagesvc/apperr"
	"github.com/granpix/granpix-services/internal/stagesvc/store"
)

// WalletService moves the two team balances. Doricoins never go negative;
// saldo pix may run down to the configured floor.
type WalletService struct {
	pool *pgxpool.Pool
}

func NewWalletService(pool *pgxpool.Pool) *WalletService {
	return &WalletService{pool: pool}
}

// DebitDoricoins removes coins under a row lock, failing with
// ErrInsufficientFunds rather than overdrawing.
func (s *WalletService) DebitDoricoins(ctx context.Context, teamID string, amount decimal.Decimal) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return debitDoricoinsTx(ctx, newStores(tx), teamID, amount)
	})
}

func debitDoricoinsTx(ctx context.Context, st *stores, teamID string, amount decimal.Decimal) error {
	team, err := st.teams.GetForUpdate(ctx, teamID)
	if err != nil {
		return err
	}
	if team.Doricoins.LessThan(amount) {
		return apperr.ErrInsufficientFunds
	}
	return st.teams.UpdateDoricoins(ctx, teamID, team.Doricoins.Sub(amount))
}

func (s *WalletService) CreditDoricoins(ctx context.Context, teamID string, amount decimal.Decimal) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return creditDoricoinsTx(ctx, newStores(tx), teamID, amount)
	})
}

func creditDoricoinsTx(ctx context.Context, st *stores, teamID string, amount decimal.Decimal) error {
	team, err := st.teams.GetForUpdate(ctx, teamID)
	if err != nil {
		return err
	}
	return st.teams.UpdateDoricoins(ctx, teamID, team.Doricoins.Add(amount))
}

// AdjustSaldoPix applies a signed delta. Debits that would land below the
// floor are rejected with ErrFloorBreached.
func (s *WalletService) AdjustSaldoPix(ctx context.Context, teamID string, delta decimal.Decimal) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		st := newStores(tx)
		team, err := st.teams.GetForUpdate(ctx, teamID)
		if err != nil {
			return err
		}
		floor, err := st.configs.PixFloor(ctx)
		if err != nil {
			return err
		}
		next := team.SaldoPix.Add(delta)
		if delta.IsNegative() && next.LessThan(floor) {
			return apperr.ErrFloorBreached
		}
		return st.teams.UpdateSaldoPix(ctx, teamID, next)
	})
}

// feeOutcome is the result of charging a stage fee against a pix balance.
type feeOutcome struct {
	NewBalance decimal.Decimal
	Settlement decimal.Decimal
	Regularise bool
}

// stageFeeOutcome decides how an inscription fee lands. A team already in
// debt by the full fee, or that the fee would push past the floor, gets a
// settlement demand of its debt plus the fee instead of a balance change.
func stageFeeOutcome(balance, fee, floor decimal.Decimal) feeOutcome {
	if balance.LessThanOrEqual(fee.Neg()) {
		return feeOutcome{NewBalance: balance, Settlement: fee.Sub(balance), Regularise: true}
	}
	next := balance.Sub(fee)
	if next.LessThan(floor) {
		return feeOutcome{NewBalance: balance, Settlement: fee.Sub(balance), Regularise: true}
	}
	return feeOutcome{NewBalance: next}
}

// chargeStageFeeTx debits the serie's stage fee from a locked team row.
// When regularisation is needed the balance stays put and the caller
// receives the settlement amount inside a RegularisationError.
func chargeStageFeeTx(ctx context.Context, st *stores, teamID, serie string) (decimal.Decimal, error) {
	team, err := st.teams.GetForUpdate(ctx, teamID)
	if err != nil {
		return decimal.Zero, err
	}
	fee, err := st.configs.StageFee(ctx, serie)
	if err != nil {
		return decimal.Zero, err
	}
	floor, err := st.configs.PixFloor(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	out := stageFeeOutcome(team.SaldoPix, fee, floor)
	if out.Regularise {
		logrus.WithFields(logrus.Fields{
			"team_id":    teamID,
			"balance":    team.SaldoPix.StringFixed(2),
			"settlement": out.Settlement.StringFixed(2),
		}).Info("stage fee requires balance regularisation")
		return fee, &apperr.RegularisationError{Settlement: out.Settlement}
	}
	if err := st.teams.UpdateSaldoPix(ctx, teamID, out.NewBalance); err != nil {
		return decimal.Zero, err
	}
	return fee, nil
}

// creditSaldoPixTx adds to the pix balance under a row lock. Credits are
// never floor-checked.
func creditSaldoPixTx(ctx context.Context, st *stores, teamID string, amount decimal.Decimal) error {
	team, err := st.teams.GetForUpdate(ctx, teamID)
	if err != nil {
		return err
	}
	return st.teams.UpdateSaldoPix(ctx, teamID, team.SaldoPix.Add(amount))
}

func creditPrizeTx(ctx context.Context, st *stores, teamID string, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	if amount.IsNegative() {
		return fmt.Errorf("negative prize %s", amount)
	}
	return creditSaldoPixTx(ctx, st, teamID, amount)
}

// CreditPrize pays prize money into the pix balance.
func (s *WalletService) CreditPrize(ctx context.Context, teamID string, amount decimal.Decimal) error {
	return store.RunInTx(ctx, s.pool, func(tx pgx.Tx) error {
		return creditPrizeTx(ctx, newStores(tx), teamID, amount)
	})
}
