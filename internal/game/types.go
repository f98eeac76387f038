package game

// Caret is a player's cursor position inside the current text.
// CaretIdx -1 means "before the first character of the current word".
type Caret struct {
	CaretIdx int `json:"caretIdx"`
	WordIdx  int `json:"wordIdx"`
}

// ResetCaret is the position every caret returns to when a game stops.
var ResetCaret = Caret{CaretIdx: -1, WordIdx: 0}

// Valid reports whether the caret is inside the representable range.
func (c Caret) Valid() bool {
	return c.CaretIdx >= -1 && c.WordIdx >= 0
}

// PlayerStats is a caller-supplied summary of one race or round. The server
// never grades typing itself; it only validates shape and rebroadcasts.
type PlayerStats struct {
	Accuracy  float64 `json:"accuracy"`
	WPM       float64 `json:"wpm"`
	RawWPM    float64 `json:"rawWpm"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
}

// Valid reports whether the stats are internally consistent: nothing
// negative, accuracy within 0..100.
func (s PlayerStats) Valid() bool {
	if s.Correct < 0 || s.Incorrect < 0 {
		return false
	}
	if s.WPM < 0 || s.RawWPM < 0 {
		return false
	}
	return s.Accuracy >= 0 && s.Accuracy <= 100
}

// Accuracy derives the percentage of correct characters, 0 when nothing
// was typed.
func Accuracy(correct, incorrect int) float64 {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return 100 * float64(correct) / float64(total)
}
