// Package di provides dependency injection type definitions.
package di

import (
	"github.com/aristath/qae/internal/database"
	"github.com/aristath/qae/internal/modules/autoencoder"
	"github.com/aristath/qae/internal/modules/hydrogen"
	"github.com/aristath/qae/internal/modules/optimization"
	"github.com/aristath/qae/internal/modules/quantum"
	"github.com/aristath/qae/internal/scheduler"
)

// Container holds all dependencies for the application.
// It is created by Wire() and passed to the server for access to services.
type Container struct {
	// Databases
	AutoencoderDB *database.DB // training run history

	// Data
	Factory  *hydrogen.Factory
	TrainSet hydrogen.Dataset
	TestSet  hydrogen.Dataset

	// Circuit and optimizer
	Circuit     *quantum.Circuit
	Optimizer   *optimization.BasinHopping
	Autoencoder *autoencoder.Autoencoder

	// Repositories and services
	RunRepo            *autoencoder.RunRepository
	AutoencoderService *autoencoder.Service

	// Background jobs
	Scheduler *scheduler.Scheduler
}

// JobInstances holds references to registered jobs for manual triggering via API
type JobInstances struct {
	Training            scheduler.Job // nil when scheduled training is disabled
	CheckDatabases      scheduler.Job
	CheckWALCheckpoints scheduler.Job
	RunRetention        scheduler.Job
}

// Close releases the container's databases
func (c *Container) Close() error {
	if c.AutoencoderDB != nil {
		return c.AutoencoderDB.Close()
	}
	return nil
}
