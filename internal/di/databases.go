package di

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/aristath/qae/internal/config"
	"github.com/aristath/qae/internal/database"
)

// InitializeDatabases opens the databases and applies schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// autoencoder.db - training run history
	autoencoderDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "autoencoder.db"),
		Profile: cfg.DBProfile,
		Name:    "autoencoder",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize autoencoder database: %w", err)
	}

	if err := autoencoderDB.Migrate(); err != nil {
		autoencoderDB.Close()
		return nil, fmt.Errorf("failed to migrate autoencoder database: %w", err)
	}
	container.AutoencoderDB = autoencoderDB

	log.Info().Str("path", autoencoderDB.Path()).Msg("Databases initialized")
	return container, nil
}
