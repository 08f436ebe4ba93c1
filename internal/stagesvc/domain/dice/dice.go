// Package dice applies pass damage to installed parts. One pass is one
// head-to-head run between two cars: each filled mandatory slot rolls once,
// the differential slot rolls once per car no matter how many differentials
// are mounted, and the resulting damage is split equally among them.
// Upgrades never take damage.
package dice

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

const DefaultFaces = 6

// PartState is a snapshot of one base part entering the pass.
type PartState struct {
	ID               string
	Name             string
	Slot             string
	Durability       decimal.Decimal
	BreakCoefficient decimal.Decimal
}

// Loadout is the rollable view of one car: the four mandatory slots (nil
// when empty) and the mounted differentials.
type Loadout struct {
	CarID         string
	Motor         *PartState
	Gearbox       *PartState
	Suspension    *PartState
	AngleKit      *PartState
	Differentials []*PartState
}

type Roll struct {
	CarID         string
	PartID        string
	Slot          string
	Face          int
	Damage        decimal.Decimal
	NewDurability decimal.Decimal
	Broke         bool
}

type PassResult struct {
	Rolls      []Roll
	Broken     []string // part ids that hit zero durability on this pass
	DiceRolled int      // die casts; differentials share one cast per car
}

// Roller rolls the damage die. The random source is injected so passes can
// be replayed deterministically in tests.
type Roller struct {
	rnd   *rand.Rand
	faces int
}

func NewRoller(rnd *rand.Rand, faces int) *Roller {
	if faces < 1 {
		faces = DefaultFaces
	}
	return &Roller{rnd: rnd, faces: faces}
}

func (r *Roller) roll() int {
	return r.rnd.Intn(r.faces) + 1
}

// damage for one part given a face: face x break coefficient, divided by
// split (the differential share), clamped so durability stays at or above 0.
func (r *Roller) apply(car string, p *PartState, face, split int) Roll {
	dmg := decimal.NewFromInt(int64(face)).Mul(p.BreakCoefficient)
	if split > 1 {
		dmg = dmg.Div(decimal.NewFromInt(int64(split)))
	}
	if dmg.GreaterThan(p.Durability) {
		dmg = p.Durability
	}
	nd := p.Durability.Sub(dmg)
	return Roll{
		CarID:         car,
		PartID:        p.ID,
		Slot:          p.Slot,
		Face:          face,
		Damage:        dmg,
		NewDurability: nd,
		Broke:         nd.IsZero() && !p.Durability.IsZero(),
	}
}

// ApplyPass rolls both cars of a pass. Empty slots contribute no roll; a
// car with differentials mounted rolls the differential die once and each
// differential takes an equal share of its own face-scaled damage.
func (r *Roller) ApplyPass(cars []*Loadout) PassResult {
	var res PassResult
	for _, car := range cars {
		for _, p := range []*PartState{car.Motor, car.Gearbox, car.Suspension, car.AngleKit} {
			if p == nil {
				continue
			}
			roll := r.apply(car.CarID, p, r.roll(), 1)
			res.DiceRolled++
			res.Rolls = append(res.Rolls, roll)
			if roll.Broke {
				res.Broken = append(res.Broken, p.ID)
			}
		}
		if n := len(car.Differentials); n > 0 {
			face := r.roll()
			res.DiceRolled++
			for _, p := range car.Differentials {
				roll := r.apply(car.CarID, p, face, n)
				res.Rolls = append(res.Rolls, roll)
				if roll.Broke {
					res.Broken = append(res.Broken, p.ID)
				}
			}
		}
	}
	return res
}
