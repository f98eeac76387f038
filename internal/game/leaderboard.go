package game

import "sort"

// RoundResult is one player's submitted outcome for a single wave-rush round.
type RoundResult struct {
	PlayerID    string  `json:"playerId"`
	Correct     int     `json:"correct"`
	Incorrect   int     `json:"incorrect"`
	TimeElapsed float64 `json:"timeElapsed"`
	WPM         float64 `json:"wpm"`
	Accuracy    float64 `json:"accuracy"`
}

// Rank orders results by correct descending, then timeElapsed ascending.
// The sort is stable so equal keys keep submission order. The input slice is
// not modified.
func Rank(results []RoundResult) []RoundResult {
	ranked := make([]RoundResult, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Correct != ranked[j].Correct {
			return ranked[i].Correct > ranked[j].Correct
		}
		return ranked[i].TimeElapsed < ranked[j].TimeElapsed
	})
	return ranked
}
