package cleanup

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPruner struct {
	cutoffs []time.Time
	deleted int64
	err     error
}

func (m *mockPruner) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	m.cutoffs = append(m.cutoffs, cutoff)
	return m.deleted, m.err
}

func TestRunRetentionJob_Name(t *testing.T) {
	job := NewRunRetentionJob(&mockPruner{}, time.Hour, zerolog.Nop())
	assert.Equal(t, "run_retention", job.Name())
}

func TestRunRetentionJob_Run(t *testing.T) {
	pruner := &mockPruner{deleted: 3}
	job := NewRunRetentionJob(pruner, 30*24*time.Hour, zerolog.Nop())
	now := time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	require.NoError(t, job.Run())
	require.Len(t, pruner.cutoffs, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), pruner.cutoffs[0])
}

func TestRunRetentionJob_Disabled(t *testing.T) {
	pruner := &mockPruner{}
	job := NewRunRetentionJob(pruner, 0, zerolog.Nop())

	require.NoError(t, job.Run())
	assert.Empty(t, pruner.cutoffs)
}

func TestRunRetentionJob_Error(t *testing.T) {
	pruner := &mockPruner{err: errors.New("database is locked")}
	job := NewRunRetentionJob(pruner, time.Hour, zerolog.Nop())

	err := job.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}
