package game

// Result is the accumulated outcome of a wave-rush game, indexed both by
// player and by round. byRound holds at most one entry per player per round;
// SubmitResult is the only writer and enforces that.
type Result struct {
	ByPlayer     map[string][]RoundResult `json:"byPlayer"`
	ByRound      map[int][]RoundResult    `json:"byRound"`
	CurrentRound int                      `json:"currentRound"`
}

// WaveRush runs WaveCount timed rounds with per-round result collection.
type WaveRush struct {
	waveCount int
	result    Result
}

func NewWaveRush(waveCount int) *WaveRush {
	return &WaveRush{
		waveCount: waveCount,
		result: Result{
			ByPlayer: make(map[string][]RoundResult),
			ByRound:  make(map[int][]RoundResult),
		},
	}
}

func (w *WaveRush) CurrentRound() int { return w.result.CurrentRound }
func (w *WaveRush) WaveCount() int    { return w.waveCount }

// SubmitResult records a player's result for the given round. Submissions
// for a round other than the current one are stale and dropped; so is a
// second submission by the same player for the same round. Returns whether
// the result was recorded.
func (w *WaveRush) SubmitResult(playerID string, r RoundResult, roundIndex int) bool {
	if roundIndex != w.result.CurrentRound {
		return false
	}
	for _, prev := range w.result.ByRound[roundIndex] {
		if prev.PlayerID == playerID {
			return false
		}
	}
	r.PlayerID = playerID
	w.result.ByRound[roundIndex] = append(w.result.ByRound[roundIndex], r)
	w.result.ByPlayer[playerID] = append(w.result.ByPlayer[playerID], r)
	return true
}

// Submitted reports whether the player already has a result for the
// current round.
func (w *WaveRush) Submitted(playerID string) bool {
	for _, r := range w.result.ByRound[w.result.CurrentRound] {
		if r.PlayerID == playerID {
			return true
		}
	}
	return false
}

// AllSubmitted reports whether every given player has a result for the
// current round. Pass the connected roster only; an empty roster never
// completes a round early (the duration timer is the backstop).
func (w *WaveRush) AllSubmitted(playerIDs []string) bool {
	if len(playerIDs) == 0 {
		return false
	}
	for _, id := range playerIDs {
		if !w.Submitted(id) {
			return false
		}
	}
	return true
}

// RoundLeaderboard ranks the current round's submissions.
func (w *WaveRush) RoundLeaderboard() []RoundResult {
	return Rank(w.result.ByRound[w.result.CurrentRound])
}

// LastRound reports whether the current round is the final wave.
func (w *WaveRush) LastRound() bool {
	return w.result.CurrentRound+1 >= w.waveCount
}

// AdvanceRound moves to the next wave. Per-round submission state is
// implicit in ByRound, so nothing else needs clearing.
func (w *WaveRush) AdvanceRound() {
	w.result.CurrentRound++
}

// FinalStandings aggregates every player's rounds: summed correct
// descending, total timeElapsed ascending.
func (w *WaveRush) FinalStandings() []RoundResult {
	totals := make([]RoundResult, 0, len(w.result.ByPlayer))
	// Walk rounds in order so equal totals keep a deterministic sequence.
	seen := make(map[string]int) // playerID -> index in totals
	for round := 0; round < w.waveCount; round++ {
		for _, r := range w.result.ByRound[round] {
			i, ok := seen[r.PlayerID]
			if !ok {
				seen[r.PlayerID] = len(totals)
				totals = append(totals, RoundResult{PlayerID: r.PlayerID})
				i = len(totals) - 1
			}
			totals[i].Correct += r.Correct
			totals[i].Incorrect += r.Incorrect
			totals[i].TimeElapsed += r.TimeElapsed
		}
	}
	for i := range totals {
		totals[i].Accuracy = Accuracy(totals[i].Correct, totals[i].Incorrect)
	}
	return Rank(totals)
}

// Snapshot returns a copy of the accumulated result for broadcasting.
func (w *WaveRush) Snapshot() Result {
	out := Result{
		ByPlayer:     make(map[string][]RoundResult, len(w.result.ByPlayer)),
		ByRound:      make(map[int][]RoundResult, len(w.result.ByRound)),
		CurrentRound: w.result.CurrentRound,
	}
	for id, rs := range w.result.ByPlayer {
		out.ByPlayer[id] = append([]RoundResult(nil), rs...)
	}
	for round, rs := range w.result.ByRound {
		out.ByRound[round] = append([]RoundResult(nil), rs...)
	}
	return out
}
