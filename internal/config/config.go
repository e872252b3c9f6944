// Package config builds the run configuration for a semverlint
// invocation: a layer of environment defaults (loaded via godotenv) and
// a layer of explicit CLI flags, mirroring the two-stage shape the
// teacher project uses (LoadConfig for env, BuildConfigFromFlags for
// flags) rather than merging the concerns into one parser.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/oxhq/semverlint/internal/lint"
)

// Config holds everything one `semverlint run` invocation needs.
type Config struct {
	BaselinePath string
	CurrentPath  string
	LintsGlob    string
	DatabaseDSN  string
	Debug        bool
	JSONOutput   bool
	Concurrency  int
	FailOn       lint.RequiredUpdate
}

// LoadEnvDefaults reads a .env file if present (missing is not an
// error — godotenv.Load already tolerates that) and layers
// SEMVERLINT_*-prefixed environment variables over the built-in
// defaults below. CLI flags parsed afterward always take precedence.
func LoadEnvDefaults() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		LintsGlob:   "lints/**/*.yaml",
		DatabaseDSN: "semverlint.db",
		Concurrency: 0,
		FailOn:      lint.Major,
	}

	if v := os.Getenv("SEMVERLINT_LINTS_GLOB"); v != "" {
		cfg.LintsGlob = v
	}
	if v := os.Getenv("SEMVERLINT_DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("SEMVERLINT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("SEMVERLINT_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Concurrency = n
		}
	}
	if v := os.Getenv("SEMVERLINT_FAIL_ON"); v != "" {
		if u, ok := lint.ParseRequiredUpdate(v); ok {
			cfg.FailOn = u
		}
	}

	return cfg
}
