package bracket

import "sort"

// ResolvedMatch is a finished match as the placement computation needs it.
type ResolvedMatch struct {
	Round  string
	TeamA  string
	TeamB  string
	Winner string
}

type Placement struct {
	TeamID    string
	Placement int
}

func (m ResolvedMatch) loser() string {
	if m.Winner == m.TeamA {
		return m.TeamB
	}
	return m.TeamA
}

// Placements ranks every team of a finished bracket. The final decides
// first and second; every other team is grouped by the round it was
// eliminated in, later rounds placing higher, and ordered inside the group
// by qualification order.
func Placements(matches []ResolvedMatch, qualOrder map[string]int) []Placement {
	byRound := map[string][]ResolvedMatch{}
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
	}

	var out []Placement

	finals := byRound[Final]
	if len(finals) != 1 {
		return nil
	}
	out = append(out,
		Placement{TeamID: finals[0].Winner, Placement: 1},
		Placement{TeamID: finals[0].loser(), Placement: 2},
	)

	next := 3
	// walk the ladder from the semifinals back out to the widest round
	for i := len(roundOrder) - 2; i >= 0; i-- {
		round := roundOrder[i]
		ms, ok := byRound[round]
		if !ok {
			continue
		}
		losers := make([]string, 0, len(ms))
		for _, m := range ms {
			losers = append(losers, m.loser())
		}
		sort.Slice(losers, func(a, b int) bool {
			return qualOrder[losers[a]] < qualOrder[losers[b]]
		})
		for _, t := range losers {
			out = append(out, Placement{TeamID: t, Placement: next})
			next++
		}
	}

	return out
}
