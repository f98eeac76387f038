package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waveRushConfig(waves, duration, between int) Config {
	words := make([][]string, waves)
	for i := range words {
		words[i] = []string{"alpha", "beta", "gamma"}
	}
	return Config{
		Mode:              ModeWaveRush,
		WordsPerRound:     words,
		RoundDuration:     duration,
		WaveCount:         waves,
		TimeBetweenRounds: between,
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "type-race needs nothing else", cfg: Config{Mode: ModeTypeRace}},
		{name: "wave-rush valid", cfg: waveRushConfig(3, 10, 3)},
		{name: "untimed rounds allowed", cfg: waveRushConfig(2, 0, 3)},
		{name: "wave count zero", cfg: waveRushConfig(0, 10, 3), wantErr: true},
		{name: "wave count above max", cfg: waveRushConfig(6, 10, 3), wantErr: true},
		{name: "round duration above max", cfg: waveRushConfig(2, 16, 3), wantErr: true},
		{name: "negative round duration", cfg: waveRushConfig(2, -1, 3), wantErr: true},
		{name: "unknown mode", cfg: Config{Mode: "speed-run"}, wantErr: true},
		{
			name: "fewer word lists than waves",
			cfg: Config{
				Mode:          ModeWaveRush,
				WordsPerRound: [][]string{{"one"}},
				WaveCount:     2,
				RoundDuration: 5,
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfigValue)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestConfigValidateDefaultsTimeBetweenRounds(t *testing.T) {
	cfg := waveRushConfig(2, 5, 0)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultTimeBetweenRounds, cfg.TimeBetweenRounds)
}

func TestDefaultConfigIsTypeRace(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ModeTypeRace, cfg.Mode)
	require.NoError(t, cfg.Validate())
}
