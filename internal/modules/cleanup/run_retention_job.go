// Package cleanup provides data cleanup and maintenance functionality.
package cleanup

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// RunPruner deletes stored training runs older than a cutoff
type RunPruner interface {
	DeleteFinishedBefore(cutoff time.Time) (int64, error)
}

// RunRetentionJob removes training runs past the retention window.
// Runs daily alongside the database maintenance jobs.
type RunRetentionJob struct {
	runs      RunPruner
	retention time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewRunRetentionJob creates a new run retention job
func NewRunRetentionJob(runs RunPruner, retention time.Duration, log zerolog.Logger) *RunRetentionJob {
	return &RunRetentionJob{
		runs:      runs,
		retention: retention,
		now:       time.Now,
		log:       log.With().Str("job", "run_retention").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *RunRetentionJob) Name() string {
	return "run_retention"
}

// Run executes the cleanup job
func (j *RunRetentionJob) Run() error {
	if j.retention <= 0 {
		j.log.Debug().Msg("Retention disabled, keeping all runs")
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	j.log.Info().Time("cutoff", cutoff).Msg("Starting run retention job")

	deleted, err := j.runs.DeleteFinishedBefore(cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune runs: %w", err)
	}

	j.log.Info().
		Int64("deleted", deleted).
		Msg("Run retention job completed")

	return nil
}
