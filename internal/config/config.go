package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env              string
	ListenAddr       string
	MaxRooms         int
	RoomCodeLength   int
	RoomCodeAlphabet string
	RoomIdleTimeout  time.Duration
	DisconnectGrace  time.Duration
	WSReadLimit      int64
}

// Load reads .env (if present) and then the process environment, applying
// defaults for anything unset.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Env:              getenv("ENV", "development"),
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		MaxRooms:         getenvInt("MAX_ROOMS", 1000),
		RoomCodeLength:   getenvInt("ROOM_CODE_LENGTH", 6),
		RoomCodeAlphabet: getenv("ROOM_CODE_ALPHABET", "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"),
		RoomIdleTimeout:  time.Duration(getenvInt("ROOM_IDLE_TIMEOUT_SEC", 1800)) * time.Second,
		DisconnectGrace:  time.Duration(getenvInt("DISCONNECT_GRACE_SEC", 10)) * time.Second,
		WSReadLimit:      int64(getenvInt("WS_READ_LIMIT", 32768)),
	}

	if cfg.MaxRooms <= 0 {
		return nil, fmt.Errorf("MAX_ROOMS must be positive, got %d", cfg.MaxRooms)
	}
	if cfg.RoomCodeLength < 4 {
		return nil, fmt.Errorf("ROOM_CODE_LENGTH must be at least 4, got %d", cfg.RoomCodeLength)
	}
	if len(cfg.RoomCodeAlphabet) < 2 {
		return nil, fmt.Errorf("ROOM_CODE_ALPHABET too small: %q", cfg.RoomCodeAlphabet)
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
