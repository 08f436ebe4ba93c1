package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacementsFiveTeamBracket(t *testing.T) {
	// seeds 1..5 in a top8: seed 1 byes, (2 vs 5) and (3 vs 4) race.
	// t5 and t3 win, t1 byes the semifinal too, t5 beats t3 and then t1.
	qual := map[string]int{"t1": 1, "t2": 2, "t3": 3, "t4": 4, "t5": 5}
	matches := []ResolvedMatch{
		{Round: Top8, TeamA: "t2", TeamB: "t5", Winner: "t5"},
		{Round: Top8, TeamA: "t3", TeamB: "t4", Winner: "t3"},
		{Round: Top4, TeamA: "t3", TeamB: "t5", Winner: "t5"},
		{Round: Final, TeamA: "t1", TeamB: "t5", Winner: "t5"},
	}

	got := Placements(matches, qual)

	require.Len(t, got, 5)
	byTeam := map[string]int{}
	for _, p := range got {
		byTeam[p.TeamID] = p.Placement
	}
	assert.Equal(t, 1, byTeam["t5"])
	assert.Equal(t, 2, byTeam["t1"])
	assert.Equal(t, 3, byTeam["t3"]) // semifinal loser
	assert.Equal(t, 4, byTeam["t2"]) // top8 loser, better qual order
	assert.Equal(t, 5, byTeam["t4"]) // top8 loser

	// every assigned placement maps onto the fixed point table
	total := 0
	for _, p := range got {
		total += PointsForPlacement(p.Placement)
	}
	assert.Equal(t, 100+88+76+64+48, total)
}

func TestPlacementsRequireResolvedFinal(t *testing.T) {
	got := Placements([]ResolvedMatch{{Round: Top4, TeamA: "a", TeamB: "b", Winner: "a"}}, nil)
	assert.Nil(t, got)
}

func TestPointsForPlacement(t *testing.T) {
	tests := []struct {
		placement int
		want      int
	}{
		{1, 100}, {2, 88}, {3, 76}, {4, 64},
		{5, 48}, {8, 48}, {9, 32}, {16, 32},
		{17, 16}, {32, 16}, {33, 0}, {100, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PointsForPlacement(tt.placement), "placement %d", tt.placement)
	}
}
