// Package config provides centralized configuration loaded from environment
// variables, plus the default keeper rules applied when a scenario omits its
// own rules block.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/draftroom/keeper-data/internal/league"
)

// --------------------------------------------------------------------------
// Default league rules
// --------------------------------------------------------------------------

// DefaultRules are the stock keeper-league settings: 16-round draft, three
// keepers per roster of which at most one franchise tag, three-year regular
// keeper limit, undrafted players priced as round-10 picks.
func DefaultRules() league.Rules {
	return league.Rules{
		MaxKeepers:            3,
		MaxFranchiseTags:      1,
		MaxRegularKeepers:     2,
		RegularKeeperMaxYears: 3,
		UndraftedRound:        10,
		FranchiseTagRound:     1,
		TotalRounds:           16,
		PickValues:            defaultPickValues(16),
	}
}

// defaultPickValues approximates a standard draft value chart: round 1 is
// worth 1000 and each later round roughly 80% of the one before. Display
// only, never consulted by cost logic.
func defaultPickValues(rounds int) map[int]int {
	values := make(map[int]int, rounds)
	v := 1000.0
	for round := 1; round <= rounds; round++ {
		values[round] = int(v)
		v *= 0.8
	}
	return values
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

// Config is the application configuration for keeperctl.
type Config struct {
	LogLevel    slog.Level
	Environment string // development, staging, production

	CacheEnabled bool
	CacheTTL     time.Duration

	ScenarioDir string
}

// Load reads configuration from environment variables with sensible
// defaults. It never fails: every setting has a usable default.
func Load() *Config {
	return &Config{
		LogLevel:     envLevel("LOG_LEVEL", slog.LevelInfo),
		Environment:  envOr("ENVIRONMENT", "development"),
		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     time.Duration(envInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		ScenarioDir:  envOr("SCENARIO_DIR", "."),
	}
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envLevel(key string, fallback slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
