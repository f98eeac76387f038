package game

import "fmt"

type Mode string

const (
	ModeTypeRace Mode = "type-race"
	ModeWaveRush Mode = "wave-rush"
)

const (
	MaxWaveCount     = 5
	MaxRoundDuration = 15 // seconds; 0 means untimed

	// DefaultTimeBetweenRounds is used when a wave-rush config omits the
	// transition window.
	DefaultTimeBetweenRounds = 3
)

// Config is a room's game configuration. Words / WordsPerRound are opaque to
// the server; clients grade typing against them.
type Config struct {
	Mode  Mode     `json:"mode"`
	Words []string `json:"words,omitempty"`

	// wave-rush only
	WordsPerRound     [][]string `json:"wordsPerRound,omitempty"`
	RoundDuration     int        `json:"roundDuration,omitempty"`
	WaveCount         int        `json:"waveCount,omitempty"`
	TimeBetweenRounds int        `json:"timeBetweenRounds,omitempty"`
}

// DefaultConfig is what a freshly created room starts with.
func DefaultConfig() Config {
	return Config{Mode: ModeTypeRace}
}

// Validate checks mode-specific bounds and normalizes defaults. It returns
// ErrInvalidConfigValue (wrapped with detail) on the first violation.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeTypeRace:
		return nil

	case ModeWaveRush:
		if c.WaveCount < 1 || c.WaveCount > MaxWaveCount {
			return fmt.Errorf("%w: waveCount %d not in [1,%d]", ErrInvalidConfigValue, c.WaveCount, MaxWaveCount)
		}
		if c.RoundDuration < 0 || c.RoundDuration > MaxRoundDuration {
			return fmt.Errorf("%w: roundDuration %d not in [0,%d]", ErrInvalidConfigValue, c.RoundDuration, MaxRoundDuration)
		}
		if len(c.WordsPerRound) < c.WaveCount {
			return fmt.Errorf("%w: %d word lists for %d waves", ErrInvalidConfigValue, len(c.WordsPerRound), c.WaveCount)
		}
		if c.TimeBetweenRounds < 0 {
			return fmt.Errorf("%w: timeBetweenRounds %d is negative", ErrInvalidConfigValue, c.TimeBetweenRounds)
		}
		if c.TimeBetweenRounds == 0 {
			c.TimeBetweenRounds = DefaultTimeBetweenRounds
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfigValue, c.Mode)
	}
}
