package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qae/internal/database"
	"github.com/aristath/qae/internal/modules/optimization"
)

func TestLoad_Defaults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("QAE_DATA_DIR", dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.DirExists(t, dir)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, database.ProfileStandard, cfg.DBProfile)
	assert.Empty(t, cfg.TrainingSchedule)

	a := cfg.Autoencoder
	assert.Equal(t, 2, a.NumRef)
	assert.Equal(t, 2, a.Rounds)
	assert.Equal(t, optimization.CostLinear, a.CostMode)
	assert.Equal(t, 500, a.Iterations)
	assert.Equal(t, 1e-8, a.StepSize)
	assert.Equal(t, 1.0, a.Temperature)
	assert.Equal(t, 1, a.Trials)
	assert.GreaterOrEqual(t, a.Workers, 1)
	assert.Equal(t, time.Duration(0), a.RoundTimeout)
	assert.Equal(t, 0.8, a.TrainFraction)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("QAE_DATA_DIR", t.TempDir())
	t.Setenv("GO_PORT", "9100")
	t.Setenv("QAE_NUM_REF", "3")
	t.Setenv("QAE_ROUNDS", "5")
	t.Setenv("QAE_COST", "Infidelity")
	t.Setenv("QAE_TRIALS", "4")
	t.Setenv("QAE_ROUND_TIMEOUT", "30s")
	t.Setenv("QAE_SEED", "18446744073709551615")
	t.Setenv("QAE_TRAINING_SCHEDULE", "@hourly")
	t.Setenv("QAE_DB_PROFILE", "durable")
	t.Setenv("QAE_TRAIN_ON_START", "true")
	t.Setenv("QAE_RUN_RETENTION_DAYS", "30")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, 3, cfg.Autoencoder.NumRef)
	assert.Equal(t, 5, cfg.Autoencoder.Rounds)
	assert.Equal(t, optimization.CostInfidelity, cfg.Autoencoder.CostMode)
	assert.Equal(t, 4, cfg.Autoencoder.OptimizerSettings().Trials)
	assert.Equal(t, 30*time.Second, cfg.Autoencoder.RoundTimeout)
	assert.Equal(t, uint64(18446744073709551615), cfg.Autoencoder.Seed)
	assert.Equal(t, "@hourly", cfg.TrainingSchedule)
	assert.Equal(t, database.ProfileDurable, cfg.DBProfile)
	assert.True(t, cfg.TrainOnStart)
	assert.Equal(t, 30*24*time.Hour, cfg.RunRetention)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("QAE_DATA_DIR", t.TempDir())
	t.Setenv("QAE_ROUNDS", "many")
	t.Setenv("QAE_STEP_SIZE", "tiny")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Autoencoder.Rounds)
	assert.Equal(t, optimization.DefaultStepSize, cfg.Autoencoder.StepSize)
}

func validConfig() *Config {
	return &Config{
		Port:      8001,
		DBProfile: database.ProfileStandard,
		Autoencoder: AutoencoderConfig{
			NumRef:          2,
			Rounds:          2,
			CostMode:        optimization.CostLinear,
			Iterations:      10,
			Trials:          1,
			Workers:         1,
			LocalIterations: 10,
			TrainFraction:   0.8,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"num ref 4", func(c *Config) { c.Autoencoder.NumRef = 4 }},
		{"num ref 1", func(c *Config) { c.Autoencoder.NumRef = 1 }},
		{"zero rounds", func(c *Config) { c.Autoencoder.Rounds = 0 }},
		{"unknown cost", func(c *Config) { c.Autoencoder.CostMode = "quadratic" }},
		{"zero trials", func(c *Config) { c.Autoencoder.Trials = 0 }},
		{"zero workers", func(c *Config) { c.Autoencoder.Workers = 0 }},
		{"negative timeout", func(c *Config) { c.Autoencoder.RoundTimeout = -time.Second }},
		{"negative temperature", func(c *Config) { c.Autoencoder.Temperature = -1 }},
		{"train fraction", func(c *Config) { c.Autoencoder.TrainFraction = 1.5 }},
		{"port", func(c *Config) { c.Port = 0 }},
		{"db profile", func(c *Config) { c.DBProfile = "cache" }},
		{"negative retention", func(c *Config) { c.RunRetention = -time.Hour }},
	}

	require.NoError(t, validConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestResolveSeed(t *testing.T) {
	now := time.Unix(0, 12345)
	assert.Equal(t, uint64(7), AutoencoderConfig{Seed: 7}.ResolveSeed(now))
	assert.Equal(t, uint64(12345), AutoencoderConfig{}.ResolveSeed(now))
}
