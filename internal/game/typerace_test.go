package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRaceRankingIsArrivalOrder(t *testing.T) {
	tr := NewTypeRace()

	require.True(t, tr.RecordFinish("slow-but-first", PlayerStats{WPM: 40}))
	require.True(t, tr.RecordFinish("fast-but-second", PlayerStats{WPM: 120}))

	lb := tr.Leaderboard()
	require.Len(t, lb, 2)
	assert.Equal(t, "slow-but-first", lb[0].PlayerID)
	assert.Equal(t, "fast-but-second", lb[1].PlayerID)
}

func TestTypeRaceDuplicateFinishIgnored(t *testing.T) {
	tr := NewTypeRace()

	require.True(t, tr.RecordFinish("p1", PlayerStats{Correct: 10}))
	assert.False(t, tr.RecordFinish("p1", PlayerStats{Correct: 99}))

	lb := tr.Leaderboard()
	require.Len(t, lb, 1)
	assert.Equal(t, 10, lb[0].Stats.Correct)
}

func TestTypeRaceAllFinished(t *testing.T) {
	tr := NewTypeRace()
	tr.RecordFinish("p1", PlayerStats{})

	assert.False(t, tr.AllFinished([]string{"p1", "p2"}))
	assert.True(t, tr.AllFinished([]string{"p1"}))
	// nobody connected never counts as done
	assert.False(t, tr.AllFinished(nil))
}
