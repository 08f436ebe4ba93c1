package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Tunable keys stored in the configuracoes table. Missing rows fall back
// to the hard defaults below.
const (
	KeyStageFeeA          = "valor-inscricao-etapa-A"
	KeyStageFeeB          = "valor-inscricao-etapa-B"
	KeyMatchWinRewardA    = "premio-vitoria-batalha-A"
	KeyMatchWinRewardB    = "premio-vitoria-batalha-B"
	KeyDamageDieFaces     = "faces-dado-dano"
	KeyPixFloor           = "piso-saldo-pix"
	KeyChampionshipPrize1 = "premio-campeonato-1"
	KeyChampionshipPrize2 = "premio-campeonato-2"
	KeyChampionshipPrize3 = "premio-campeonato-3"
	KeyChampionshipPrize4 = "premio-campeonato-4"
	KeyChampionshipPrize5 = "premio-campeonato-5"
)

type ConfigStore struct {
	db DBTX
}

func NewConfigStore(db DBTX) *ConfigStore {
	return &ConfigStore{db: db}
}

func (s *ConfigStore) Get(ctx context.Context, key string) (string, bool, error) {
	var valor string
	err := s.db.QueryRow(ctx,
		`SELECT valor FROM configuracoes WHERE chave = $1`, key).Scan(&valor)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get config %s: %w", key, err)
	}
	return valor, true, nil
}

// Decimal reads a money value, falling back to def when the key is absent
// or unparsable.
func (s *ConfigStore) Decimal(ctx context.Context, key string, def decimal.Decimal) (decimal.Decimal, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return def, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return def, nil
	}
	return v, nil
}

func (s *ConfigStore) Int(ctx context.Context, key string, def int) (int, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def, nil
	}
	return v, nil
}

// StageFee returns the serie's inscription fee, default 1000.
func (s *ConfigStore) StageFee(ctx context.Context, serie string) (decimal.Decimal, error) {
	key := KeyStageFeeA
	if serie == "B" {
		key = KeyStageFeeB
	}
	return s.Decimal(ctx, key, decimal.NewFromInt(1000))
}

// MatchWinReward returns the serie's per-battle victory credit, default 0.
func (s *ConfigStore) MatchWinReward(ctx context.Context, serie string) (decimal.Decimal, error) {
	key := KeyMatchWinRewardA
	if serie == "B" {
		key = KeyMatchWinRewardB
	}
	return s.Decimal(ctx, key, decimal.Zero)
}

// DamageDieFaces returns the damage die size, default 6.
func (s *ConfigStore) DamageDieFaces(ctx context.Context) (int, error) {
	return s.Int(ctx, KeyDamageDieFaces, 6)
}

// PixFloor returns the lowest saldo pix a debit may leave, default -20.
func (s *ConfigStore) PixFloor(ctx context.Context) (decimal.Decimal, error) {
	return s.Decimal(ctx, KeyPixFloor, decimal.NewFromInt(-20))
}

// ChampionshipPrize returns the prize for final placements 1..5, zero for
// anything deeper.
func (s *ConfigStore) ChampionshipPrize(ctx context.Context, placement int) (decimal.Decimal, error) {
	var key string
	switch placement {
	case 1:
		key = KeyChampionshipPrize1
	case 2:
		key = KeyChampionshipPrize2
	case 3:
		key = KeyChampionshipPrize3
	case 4:
		key = KeyChampionshipPrize4
	case 5:
		key = KeyChampionshipPrize5
	default:
		return decimal.Zero, nil
	}
	return s.Decimal(ctx, key, decimal.Zero)
}
