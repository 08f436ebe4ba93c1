package bracket

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeds(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("team-%02d", i+1)
	}
	return out
}

func TestPlan(t *testing.T) {
	tests := []struct {
		n    int
		want []string
	}{
		{n: 0, want: nil},
		{n: 1, want: nil},
		{n: 2, want: []string{Final}},
		{n: 3, want: []string{Top4, Final}},
		{n: 4, want: []string{Top4, Final}},
		{n: 5, want: []string{Top8, Top4, Final}},
		{n: 8, want: []string{Top8, Top4, Final}},
		{n: 9, want: []string{Top16, Top8, Top4, Final}},
		{n: 16, want: []string{Top16, Top8, Top4, Final}},
		{n: 17, want: []string{Top32, Top16, Top8, Top4, Final}},
		{n: 33, want: []string{Top32, Top16, Top8, Top4, Final}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Plan(tt.n), "n=%d", tt.n)
	}
}

func TestBuildEvenCount(t *testing.T) {
	r := Build(Top8, seeds(8))

	require.Len(t, r.Pairs, 4)
	assert.Empty(t, r.Byes)
	assert.Equal(t, Pair{A: "team-01", B: "team-08"}, r.Pairs[0])
	assert.Equal(t, Pair{A: "team-02", B: "team-07"}, r.Pairs[1])
	assert.Equal(t, Pair{A: "team-03", B: "team-06"}, r.Pairs[2])
	assert.Equal(t, Pair{A: "team-04", B: "team-05"}, r.Pairs[3])
}

func TestBuildOddCountTopSeedBye(t *testing.T) {
	// five teams in a top8: seed 1 passes, the rest snake
	r := Build(Top8, seeds(5))

	assert.Equal(t, []string{"team-01"}, r.Byes)
	require.Len(t, r.Pairs, 2)
	assert.Equal(t, Pair{A: "team-02", B: "team-05"}, r.Pairs[0])
	assert.Equal(t, Pair{A: "team-03", B: "team-04"}, r.Pairs[1])
}

func TestBuildOverflowPlayIn(t *testing.T) {
	// 34 teams in a top32: the top 16 pass, seeds 17 through 34 play in
	r := Build(Top32, seeds(34))

	require.Len(t, r.Byes, 16)
	assert.Equal(t, "team-01", r.Byes[0])
	assert.Equal(t, "team-16", r.Byes[15])
	require.Len(t, r.Pairs, 9)
	assert.Equal(t, Pair{A: "team-17", B: "team-34"}, r.Pairs[0])
	assert.Equal(t, Pair{A: "team-25", B: "team-26"}, r.Pairs[8])
}

func TestBuildOverflowOddPlayIn(t *testing.T) {
	// 35 teams: top 16 pass, the middle seed of the play-in group passes too
	r := Build(Top32, seeds(35))

	require.Len(t, r.Byes, 17)
	assert.Equal(t, "team-26", r.Byes[16])
	require.Len(t, r.Pairs, 9)
	assert.Equal(t, Pair{A: "team-17", B: "team-35"}, r.Pairs[0])
	assert.Equal(t, Pair{A: "team-25", B: "team-27"}, r.Pairs[8])
}

func TestBuildFullRound(t *testing.T) {
	r := Build(Top32, seeds(32))

	assert.Empty(t, r.Byes)
	require.Len(t, r.Pairs, 16)
	assert.Equal(t, Pair{A: "team-01", B: "team-32"}, r.Pairs[0])
	assert.Equal(t, Pair{A: "team-16", B: "team-17"}, r.Pairs[15])
}

func TestNextSeedsRestoresSeedingOrder(t *testing.T) {
	idx := map[string]int{}
	for i, s := range seeds(8) {
		idx[s] = i
	}

	got := NextSeeds([]string{"team-05", "team-02"}, []string{"team-01", "team-03"}, idx)

	assert.Equal(t, []string{"team-01", "team-02", "team-03", "team-05"}, got)
}
