package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveRushDuplicateSubmissionRejected(t *testing.T) {
	w := NewWaveRush(2)

	require.True(t, w.SubmitResult("p1", RoundResult{Correct: 5}, 0))
	assert.False(t, w.SubmitResult("p1", RoundResult{Correct: 9}, 0))

	round := w.RoundLeaderboard()
	require.Len(t, round, 1)
	assert.Equal(t, 5, round[0].Correct)
}

func TestWaveRushStaleRoundDropped(t *testing.T) {
	w := NewWaveRush(3)
	w.AdvanceRound() // currentRound = 1

	assert.False(t, w.SubmitResult("p1", RoundResult{}, 0), "previous round")
	assert.False(t, w.SubmitResult("p1", RoundResult{}, 2), "future round")
	assert.True(t, w.SubmitResult("p1", RoundResult{}, 1))
}

func TestWaveRushAllSubmitted(t *testing.T) {
	w := NewWaveRush(1)
	w.SubmitResult("p1", RoundResult{}, 0)

	assert.False(t, w.AllSubmitted([]string{"p1", "p2"}))
	assert.True(t, w.AllSubmitted([]string{"p1"}))
	assert.False(t, w.AllSubmitted(nil))
}

func TestWaveRushAtMostOneEntryPerPlayerPerRound(t *testing.T) {
	w := NewWaveRush(2)
	for i := 0; i < 10; i++ {
		w.SubmitResult("p1", RoundResult{Correct: i}, 0)
		w.SubmitResult("p2", RoundResult{Correct: i}, 0)
	}

	snap := w.Snapshot()
	require.Len(t, snap.ByRound[0], 2)
	assert.Len(t, snap.ByPlayer["p1"], 1)
	assert.Len(t, snap.ByPlayer["p2"], 1)
}

func TestWaveRushFinalStandingsAggregate(t *testing.T) {
	w := NewWaveRush(2)
	w.SubmitResult("p1", RoundResult{Correct: 10, TimeElapsed: 5}, 0)
	w.SubmitResult("p2", RoundResult{Correct: 12, TimeElapsed: 5}, 0)
	w.AdvanceRound()
	w.SubmitResult("p1", RoundResult{Correct: 10, TimeElapsed: 5}, 1)
	w.SubmitResult("p2", RoundResult{Correct: 6, TimeElapsed: 4}, 1)

	final := w.FinalStandings()
	require.Len(t, final, 2)
	// p1: 20 correct / 10s, p2: 18 correct / 9s
	assert.Equal(t, "p1", final[0].PlayerID)
	assert.Equal(t, 20, final[0].Correct)
	assert.Equal(t, 18, final[1].Correct)
}

func TestWaveRushFinalStandingsTieBreakByTotalTime(t *testing.T) {
	w := NewWaveRush(1)
	w.SubmitResult("slower", RoundResult{Correct: 8, TimeElapsed: 12}, 0)
	w.SubmitResult("faster", RoundResult{Correct: 8, TimeElapsed: 9}, 0)

	final := w.FinalStandings()
	require.Len(t, final, 2)
	assert.Equal(t, "faster", final[0].PlayerID)
}

func TestWaveRushPartialParticipation(t *testing.T) {
	// A player who only submitted some rounds still appears with the sum of
	// what they did submit.
	w := NewWaveRush(2)
	w.SubmitResult("p1", RoundResult{Correct: 10, TimeElapsed: 5}, 0)
	w.AdvanceRound()
	w.SubmitResult("p1", RoundResult{Correct: 4, TimeElapsed: 3}, 1)
	w.SubmitResult("p2", RoundResult{Correct: 20, TimeElapsed: 5}, 1)

	final := w.FinalStandings()
	require.Len(t, final, 2)
	assert.Equal(t, "p2", final[0].PlayerID)
	assert.Equal(t, 14, final[1].Correct)
}

func TestWaveRushLastRound(t *testing.T) {
	w := NewWaveRush(2)
	assert.False(t, w.LastRound())
	w.AdvanceRound()
	assert.True(t, w.LastRound())
}
