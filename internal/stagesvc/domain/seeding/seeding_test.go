package seeding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderByNotes(t *testing.T) {
	entries := []Entry{
		{TeamID: "a", TeamName: "Alpha", HasNote: true, Total: 70, Line: 30},
		{TeamID: "b", TeamName: "Bravo", HasNote: true, Total: 85, Line: 35},
		{TeamID: "c", TeamName: "Charlie", HasNote: true, Total: 70, Line: 38},
	}

	got := Order(entries)

	// higher total first; line breaks the 70-point tie
	assert.Equal(t, []string{"b", "c", "a"}, got)
}

func TestOrderTotalAndLineTieFallsBackToName(t *testing.T) {
	entries := []Entry{
		{TeamID: "z", TeamName: "Zulu", HasNote: true, Total: 50, Line: 20},
		{TeamID: "a", TeamName: "Alpha", HasNote: true, Total: 50, Line: 20},
	}

	assert.Equal(t, []string{"a", "z"}, Order(entries))
}

func TestOrderFallbackToPreviousChampionship(t *testing.T) {
	entries := []Entry{
		{TeamID: "noted", TeamName: "Noted", HasNote: true, Total: 10, Line: 5},
		{TeamID: "vet", TeamName: "Veteran", HasPrev: true, PrevPoints: 164},
		{TeamID: "rookie", TeamName: "Rookie"},
		{TeamID: "vet2", TeamName: "Second", HasPrev: true, PrevPoints: 88},
	}

	got := Order(entries)

	// noted teams always seed ahead of fallback teams, fallback teams ahead
	// of teams with no history at all
	assert.Equal(t, []string{"noted", "vet", "vet2", "rookie"}, got)
}
