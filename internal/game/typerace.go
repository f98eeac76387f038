package game

// LeaderboardEntry is one finisher in a type-race.
type LeaderboardEntry struct {
	PlayerID string      `json:"playerId"`
	Stats    PlayerStats `json:"stats"`
}

// TypeRace is the single-round first-to-finish mode. Ranking is arrival
// order of RecordFinish calls; the room actor serializes them so ties
// cannot happen.
type TypeRace struct {
	order    []LeaderboardEntry
	finished map[string]bool
}

func NewTypeRace() *TypeRace {
	return &TypeRace{finished: make(map[string]bool)}
}

// RecordFinish appends a finisher once. A second call for the same player
// is ignored and reports false.
func (t *TypeRace) RecordFinish(playerID string, stats PlayerStats) bool {
	if t.finished[playerID] {
		return false
	}
	t.finished[playerID] = true
	t.order = append(t.order, LeaderboardEntry{PlayerID: playerID, Stats: stats})
	return true
}

func (t *TypeRace) Finished(playerID string) bool {
	return t.finished[playerID]
}

// Leaderboard returns finishers in arrival order.
func (t *TypeRace) Leaderboard() []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(t.order))
	copy(out, t.order)
	return out
}

// AllFinished reports whether every given player has finished. Callers pass
// the currently connected roster so disconnected players never hold the
// race open.
func (t *TypeRace) AllFinished(playerIDs []string) bool {
	if len(playerIDs) == 0 {
		return false
	}
	for _, id := range playerIDs {
		if !t.finished[id] {
			return false
		}
	}
	return true
}
