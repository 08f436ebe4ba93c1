// Package seeding orders the qualification grid. Teams with recorded notes
// seed by total score (line breaks ties); teams without notes fall back to
// their points in the series' previous championship; teams with neither sort
// last. Name is the final tiebreak everywhere so the ordering is stable
// across replays.
package seeding

import "sort"

type Entry struct {
	TeamID     string
	TeamName   string
	HasNote    bool
	Total      int // line + angle + style
	Line       int
	HasPrev    bool
	PrevPoints int
}

// Order returns team ids in seeding order, best first.
func Order(entries []Entry) []string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)

	group := func(e Entry) int {
		switch {
		case e.HasNote:
			return 0
		case e.HasPrev:
			return 1
		default:
			return 2
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if ga, gb := group(a), group(b); ga != gb {
			return ga < gb
		}
		switch group(a) {
		case 0:
			if a.Total != b.Total {
				return a.Total > b.Total
			}
			if a.Line != b.Line {
				return a.Line > b.Line
			}
		case 1:
			if a.PrevPoints != b.PrevPoints {
				return a.PrevPoints > b.PrevPoints
			}
		}
		return a.TeamName < b.TeamName
	})

	out := make([]string, len(sorted))
	for i, e := range sorted {
		out[i] = e.TeamID
	}
	return out
}
