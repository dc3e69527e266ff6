package autoencoder

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// TrainingJob retrains every topology on a schedule.
type TrainingJob struct {
	service *Service
	log     zerolog.Logger
}

// NewTrainingJob creates the scheduled training job.
func NewTrainingJob(service *Service, log zerolog.Logger) *TrainingJob {
	return &TrainingJob{
		service: service,
		log:     log.With().Str("job", "autoencoder_training").Logger(),
	}
}

// Name returns the job name.
func (j *TrainingJob) Name() string {
	return "autoencoder_training"
}

// Run executes one training pass over all topologies.
func (j *TrainingJob) Run() error {
	return j.RunContext(context.Background())
}

// RunContext is Run bounded by ctx. A cancelled pass stores nothing.
func (j *TrainingJob) RunContext(ctx context.Context) error {
	j.log.Info().Msg("Starting scheduled training")

	runs, err := j.service.TrainAll(ctx)
	if err != nil {
		return fmt.Errorf("scheduled training failed: %w", err)
	}

	for _, run := range runs {
		ev := j.log.Info().Str("id", run.ID).Str("topology", string(run.Topology))
		if last, ok := run.FinalRound(); ok {
			ev = ev.Float64("error_metric", last.ErrorMetric).Float64("log_cost", last.LogCost)
		}
		ev.Msg("Topology trained")
	}
	return nil
}
