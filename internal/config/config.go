// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the runtime settings for the game service. Values come from the
// environment (a .env file is loaded by godotenv/autoload in main).
type Config struct {
	// Port the HTTP/WebSocket server listens on.
	Port string

	// RoundDuration is the full length of one drawing round.
	RoundDuration time.Duration

	// RotateDelay is the pause between a round ending and the next drawer
	// being assigned.
	RotateDelay time.Duration

	// Scoring constants. See game.Policy for how they are applied.
	GuessBase        int
	GuessBonus       int
	DrawerPerGuesser int
	DrawerBonusCap   int
}

// Load reads the configuration from environment variables, applying defaults
// for anything unset.
func Load() Config {
	return Config{
		Port:             getEnv("PORT", "8080"),
		RoundDuration:    time.Duration(getEnvInt("ROUND_DURATION_SEC", 60)) * time.Second,
		RotateDelay:      time.Duration(getEnvInt("ROTATE_DELAY_SEC", 4)) * time.Second,
		GuessBase:        getEnvInt("SCORE_GUESS_BASE", 10),
		GuessBonus:       getEnvInt("SCORE_GUESS_BONUS", 50),
		DrawerPerGuesser: getEnvInt("SCORE_DRAWER_PER_GUESSER", 10),
		DrawerBonusCap:   getEnvInt("SCORE_DRAWER_CAP", 50),
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
