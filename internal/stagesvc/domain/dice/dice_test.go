package dice

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func part(id, slot string, durability, coeff float64) *PartState {
	return &PartState{
		ID:               id,
		Name:             id,
		Slot:             slot,
		Durability:       decimal.NewFromFloat(durability),
		BreakCoefficient: decimal.NewFromFloat(coeff),
	}
}

func fullLoadout(carID string, diffs int) *Loadout {
	l := &Loadout{
		CarID:      carID,
		Motor:      part(carID+"-motor", "motor", 100, 0.5),
		Gearbox:    part(carID+"-cambio", "cambio", 100, 1),
		Suspension: part(carID+"-susp", "suspensao", 100, 1),
		AngleKit:   part(carID+"-kit", "kit_angulo", 100, 1.5),
	}
	for i := 0; i < diffs; i++ {
		l.Differentials = append(l.Differentials, part(carID+"-dif", "diferencial", 100, 1))
	}
	return l
}

func TestApplyPassRollCount(t *testing.T) {
	r := NewRoller(rand.New(rand.NewSource(1)), 6)

	res := r.ApplyPass([]*Loadout{fullLoadout("a", 1), fullLoadout("b", 1)})

	assert.Equal(t, 10, res.DiceRolled)
	assert.Len(t, res.Rolls, 10)
	for _, roll := range res.Rolls {
		assert.GreaterOrEqual(t, roll.Face, 1)
		assert.LessOrEqual(t, roll.Face, 6)
		assert.False(t, roll.NewDurability.IsNegative())
	}
}

func TestApplyPassEmptySlotsSkipRolls(t *testing.T) {
	r := NewRoller(rand.New(rand.NewSource(1)), 6)
	carA := fullLoadout("a", 0) // no differential
	carB := fullLoadout("b", 0)
	carB.Motor = nil

	res := r.ApplyPass([]*Loadout{carA, carB})

	assert.Equal(t, 7, res.DiceRolled)
	assert.Len(t, res.Rolls, 7)
}

func TestApplyPassDamageIsFaceTimesCoefficient(t *testing.T) {
	// a one-faced die makes every roll deterministic
	r := NewRoller(rand.New(rand.NewSource(1)), 1)

	res := r.ApplyPass([]*Loadout{fullLoadout("a", 0)})

	require.Len(t, res.Rolls, 4)
	for _, roll := range res.Rolls {
		assert.Equal(t, 1, roll.Face)
	}
	assert.True(t, res.Rolls[0].Damage.Equal(decimal.NewFromFloat(0.5)), "motor coeff 0.5")
	assert.True(t, res.Rolls[0].NewDurability.Equal(decimal.NewFromFloat(99.5)))
	assert.True(t, res.Rolls[3].Damage.Equal(decimal.NewFromFloat(1.5)), "kit coeff 1.5")
}

func TestApplyPassSplitsDifferentialDamage(t *testing.T) {
	r := NewRoller(rand.New(rand.NewSource(1)), 1)
	car := &Loadout{CarID: "a"}
	for i := 0; i < 3; i++ {
		car.Differentials = append(car.Differentials, part("dif", "diferencial", 100, 1))
	}

	res := r.ApplyPass([]*Loadout{car})

	assert.Equal(t, 1, res.DiceRolled, "one cast for the whole differential slot")
	require.Len(t, res.Rolls, 3)
	third := decimal.NewFromInt(1).Div(decimal.NewFromInt(3))
	for _, roll := range res.Rolls {
		assert.Equal(t, 1, roll.Face, "all differentials share the cast")
		assert.True(t, roll.Damage.Equal(third), "damage split into thirds, got %s", roll.Damage)
	}
}

func TestApplyPassClampsAndReportsBroken(t *testing.T) {
	r := NewRoller(rand.New(rand.NewSource(1)), 1)
	car := &Loadout{
		CarID: "a",
		Motor: part("motor", "motor", 0.3, 1), // less durability than the damage
	}

	res := r.ApplyPass([]*Loadout{car})

	require.Len(t, res.Rolls, 1)
	assert.True(t, res.Rolls[0].Damage.Equal(decimal.NewFromFloat(0.3)), "damage capped at remaining durability")
	assert.True(t, res.Rolls[0].NewDurability.IsZero())
	assert.True(t, res.Rolls[0].Broke)
	assert.Equal(t, []string{"motor"}, res.Broken)
}

func TestApplyPassAlreadyBrokenPartDoesNotReBreak(t *testing.T) {
	r := NewRoller(rand.New(rand.NewSource(1)), 1)
	car := &Loadout{CarID: "a", Motor: part("motor", "motor", 0, 1)}

	res := r.ApplyPass([]*Loadout{car})

	require.Len(t, res.Rolls, 1)
	assert.True(t, res.Rolls[0].Damage.IsZero())
	assert.False(t, res.Rolls[0].Broke)
	assert.Empty(t, res.Broken)
}
