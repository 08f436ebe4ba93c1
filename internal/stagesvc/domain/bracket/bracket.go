// Package bracket implements the seeded single-elimination tournament math:
// which rounds a stage runs for N qualified teams, how each round is paired,
// and how placements and points fall out at the end. It is pure; persistence
// belongs to the services.
package bracket

// Round names ordered from widest to the final.
const (
	Top32 = "top32"
	Top16 = "top16"
	Top8  = "top8"
	Top4  = "top4"
	Final = "final"
)

var roundOrder = []string{Top32, Top16, Top8, Top4, Final}

var slotCounts = map[string]int{
	Top32: 32,
	Top16: 16,
	Top8:  8,
	Top4:  4,
	Final: 2,
}

// SlotCount returns the slot capacity of a named round, 2 for unknown names.
func SlotCount(round string) int {
	if n, ok := slotCounts[round]; ok {
		return n
	}
	return 2
}

// Plan returns the rounds a stage runs for n qualified teams, first round
// first. Fewer than two teams cannot run a bracket.
func Plan(n int) []string {
	switch {
	case n > 16:
		return []string{Top32, Top16, Top8, Top4, Final}
	case n > 8:
		return []string{Top16, Top8, Top4, Final}
	case n > 4:
		return []string{Top8, Top4, Final}
	case n > 2:
		return []string{Top4, Final}
	case n == 2:
		return []string{Final}
	default:
		return nil
	}
}

type Pair struct {
	A string
	B string
}

// Round is one generated round: the pairs that race and the seeds that pass
// straight through to the next round.
type Round struct {
	Name  string
	Pairs []Pair
	Byes  []string
}

// Build pairs one round. seeds must be in seeding order, best first.
//
// Three cases, mirroring how the qualifying grid folds into a knockout:
//   - more seeds than the round holds: the top half of the round's capacity
//     passes straight through and the rest play a snake-paired play-in;
//   - an odd count within capacity: the top seed passes, the rest snake;
//   - an even count within capacity: everyone snakes (best vs worst).
func Build(name string, seeds []string) Round {
	r := Round{Name: name}
	size := SlotCount(name)
	n := len(seeds)

	snake := func(s []string) {
		for i := 0; i < len(s)/2; i++ {
			r.Pairs = append(r.Pairs, Pair{A: s[i], B: s[len(s)-1-i]})
		}
	}

	switch {
	case n > size:
		r.Byes = append(r.Byes, seeds[:size/2]...)
		fighters := seeds[size/2:]
		if len(fighters)%2 == 1 {
			// middle seed of the play-in group joins the byes
			mid := len(fighters) / 2
			r.Byes = append(r.Byes, fighters[mid])
			fighters = append(append([]string{}, fighters[:mid]...), fighters[mid+1:]...)
		}
		snake(fighters)
	case n%2 == 1:
		r.Byes = []string{seeds[0]}
		snake(seeds[1:])
	default:
		snake(seeds)
	}

	return r
}

// NextSeeds merges the winners of a round with its byes, restoring the
// original seeding order for the next round's pairing.
func NextSeeds(winners, byes []string, seedIndex map[string]int) []string {
	out := make([]string, 0, len(winners)+len(byes))
	out = append(out, winners...)
	out = append(out, byes...)
	// insertion sort by seed; fields are tiny
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && seedIndex[out[j]] < seedIndex[out[j-1]]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
