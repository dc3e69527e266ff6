package scheduler

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/aristath/qae/internal/testing"
)

func TestCheckWALCheckpointsJob_Name(t *testing.T) {
	job := NewCheckWALCheckpointsJob(zerolog.Nop())
	assert.Equal(t, "check_wal_checkpoints", job.Name())
}

func TestCheckWALCheckpointsJob_Run_NoDatabases(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	job := NewCheckWALCheckpointsJob(log, nil, nil)

	err := job.Run()
	assert.NoError(t, err) // Should handle nil databases gracefully
}

func TestCheckWALCheckpointsJob_Run(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "autoencoder")
	defer cleanup()

	_, err := db.Conn().Exec(`INSERT INTO runs (id, topology, num_ref, cost_mode, seed, params, rounds, started_at, finished_at)
		VALUES ('r1', 'b', 2, 'linear', 1, x'90', x'90', 0, 0)`)
	require.NoError(t, err)

	job := NewCheckWALCheckpointsJob(zerolog.Nop(), db)
	assert.NoError(t, job.Run())
}
