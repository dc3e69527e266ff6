// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/aristath/qae/internal/database"
	"github.com/aristath/qae/internal/modules/optimization"
)

// Config holds application configuration
type Config struct {
	DataDir   string // Base directory for the database (always absolute)
	LogLevel  string
	LogPretty bool
	Port      int
	DevMode   bool

	DBProfile database.DatabaseProfile

	Autoencoder AutoencoderConfig

	TrainOnStart        bool          // train every topology once at startup
	TrainingSchedule    string        // empty disables scheduled training
	MaintenanceSchedule string        // database integrity, WAL and retention checks
	RunRetention        time.Duration // 0 keeps every run
}

// AutoencoderConfig holds the circuit and optimizer settings
type AutoencoderConfig struct {
	NumRef          int
	Rounds          int
	CostMode        optimization.CostMode
	Iterations      int     // basin-hopping hops per trial
	StepSize        float64 // basin-hopping displacement half-width
	Temperature     float64
	Trials          int
	Workers         int
	LocalIterations int
	RoundTimeout    time.Duration // 0 disables the per-round deadline
	Seed            uint64        // 0 derives a seed from the clock
	DatasetPath     string        // empty uses the built-in equilibrium sample
	TrainFraction   float64
}

// Load reads configuration from .env and environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("QAE_DATA_DIR", "./data")

	// Always resolve to absolute path
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:             absDataDir,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogPretty:           getEnvAsBool("LOG_PRETTY", true),
		Port:                getEnvAsInt("GO_PORT", 8001),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		DBProfile:           database.DatabaseProfile(getEnv("QAE_DB_PROFILE", string(database.ProfileStandard))),
		TrainOnStart:        getEnvAsBool("QAE_TRAIN_ON_START", false),
		TrainingSchedule:    getEnv("QAE_TRAINING_SCHEDULE", ""),
		MaintenanceSchedule: getEnv("QAE_MAINTENANCE_SCHEDULE", "0 0 3 * * *"),
		RunRetention:        time.Duration(getEnvAsInt("QAE_RUN_RETENTION_DAYS", 0)) * 24 * time.Hour,
		Autoencoder: AutoencoderConfig{
			NumRef:          getEnvAsInt("QAE_NUM_REF", 2),
			Rounds:          getEnvAsInt("QAE_ROUNDS", 2),
			CostMode:        optimization.CostMode(strings.ToLower(getEnv("QAE_COST", string(optimization.CostLinear)))),
			Iterations:      getEnvAsInt("QAE_BASIN_ITERATIONS", optimization.DefaultIterations),
			StepSize:        getEnvAsFloat("QAE_STEP_SIZE", optimization.DefaultStepSize),
			Temperature:     getEnvAsFloat("QAE_TEMPERATURE", optimization.DefaultTemperature),
			Trials:          getEnvAsInt("QAE_TRIALS", 1),
			Workers:         getEnvAsInt("QAE_WORKERS", runtime.GOMAXPROCS(0)),
			LocalIterations: getEnvAsInt("QAE_LOCAL_ITERATIONS", optimization.DefaultLocalIterations),
			RoundTimeout:    getEnvAsDuration("QAE_ROUND_TIMEOUT", 0),
			Seed:            getEnvAsUint64("QAE_SEED", 0),
			DatasetPath:     getEnv("QAE_DATASET", ""),
			TrainFraction:   getEnvAsFloat("QAE_TRAIN_FRACTION", 0.8),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the services cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("GO_PORT %d out of range", c.Port)
	}

	switch c.DBProfile {
	case database.ProfileStandard, database.ProfileDurable:
	default:
		return fmt.Errorf("QAE_DB_PROFILE must be %q or %q, got %q",
			database.ProfileStandard, database.ProfileDurable, c.DBProfile)
	}

	if c.RunRetention < 0 {
		return fmt.Errorf("QAE_RUN_RETENTION_DAYS must be non-negative")
	}

	a := c.Autoencoder
	if a.NumRef != 2 && a.NumRef != 3 {
		return fmt.Errorf("QAE_NUM_REF must be 2 or 3, got %d", a.NumRef)
	}
	if a.Rounds < 1 {
		return fmt.Errorf("QAE_ROUNDS must be at least 1, got %d", a.Rounds)
	}
	if _, err := optimization.ParseCostMode(string(a.CostMode)); err != nil {
		return fmt.Errorf("QAE_COST: %w", err)
	}
	if a.Iterations < 1 || a.Trials < 1 || a.Workers < 1 || a.LocalIterations < 1 {
		return fmt.Errorf("QAE_BASIN_ITERATIONS, QAE_TRIALS, QAE_WORKERS and QAE_LOCAL_ITERATIONS must be positive")
	}
	if a.StepSize < 0 || a.Temperature < 0 {
		return fmt.Errorf("QAE_STEP_SIZE and QAE_TEMPERATURE must be non-negative")
	}
	if a.RoundTimeout < 0 {
		return fmt.Errorf("QAE_ROUND_TIMEOUT must be non-negative, got %s", a.RoundTimeout)
	}
	if a.TrainFraction <= 0 || a.TrainFraction > 1 {
		return fmt.Errorf("QAE_TRAIN_FRACTION must be in (0, 1], got %g", a.TrainFraction)
	}

	return nil
}

// OptimizerSettings converts the autoencoder config into basin-hopping settings
func (a AutoencoderConfig) OptimizerSettings() optimization.Settings {
	return optimization.Settings{
		Iterations:      a.Iterations,
		StepSize:        a.StepSize,
		Temperature:     a.Temperature,
		Trials:          a.Trials,
		Workers:         a.Workers,
		LocalIterations: a.LocalIterations,
	}
}

// ResolveSeed returns the configured seed, or one derived from now when unset
func (a AutoencoderConfig) ResolveSeed(now time.Time) uint64 {
	if a.Seed != 0 {
		return a.Seed
	}
	return uint64(now.UnixNano())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
