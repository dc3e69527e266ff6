package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/qae/internal/config"
	"github.com/aristath/qae/internal/modules/autoencoder"
	"github.com/aristath/qae/internal/modules/cleanup"
	"github.com/aristath/qae/internal/scheduler"
)

// RegisterJobs creates the scheduler and registers background jobs.
// Returns JobInstances for manual triggering via API.
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) (*JobInstances, error) {
	if container == nil {
		return nil, fmt.Errorf("container cannot be nil")
	}

	container.Scheduler = scheduler.New(log)
	instances := &JobInstances{
		CheckDatabases:      scheduler.NewCheckDatabasesJob(log, container.AutoencoderDB),
		CheckWALCheckpoints: scheduler.NewCheckWALCheckpointsJob(log, container.AutoencoderDB),
		RunRetention:        cleanup.NewRunRetentionJob(container.RunRepo, cfg.RunRetention, log),
	}

	if cfg.MaintenanceSchedule != "" {
		if err := container.Scheduler.AddJob(cfg.MaintenanceSchedule, instances.CheckDatabases); err != nil {
			return nil, fmt.Errorf("failed to register check_databases job: %w", err)
		}
		if err := container.Scheduler.AddJob(cfg.MaintenanceSchedule, instances.CheckWALCheckpoints); err != nil {
			return nil, fmt.Errorf("failed to register check_wal_checkpoints job: %w", err)
		}
		if cfg.RunRetention > 0 {
			if err := container.Scheduler.AddJob(cfg.MaintenanceSchedule, instances.RunRetention); err != nil {
				return nil, fmt.Errorf("failed to register run_retention job: %w", err)
			}
		}
	}

	if cfg.TrainingSchedule != "" {
		training := autoencoder.NewTrainingJob(container.AutoencoderService, log)
		if err := container.Scheduler.AddJob(cfg.TrainingSchedule, training); err != nil {
			return nil, fmt.Errorf("failed to register training job: %w", err)
		}
		instances.Training = training
	}

	log.Info().Int("jobs", container.Scheduler.Len()).Msg("Jobs registered")
	return instances, nil
}
