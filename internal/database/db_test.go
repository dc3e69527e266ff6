package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string, profile DatabaseProfile) *DB {
	t.Helper()
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), "nested", name+".db"),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNew_CreatesDirectoryAndDefaultsProfile(t *testing.T) {
	db := newTestDB(t, "autoencoder", "")

	assert.Equal(t, ProfileStandard, db.Profile())
	assert.Equal(t, "autoencoder", db.Name())
	assert.True(t, filepath.IsAbs(db.Path()))
	assert.NoError(t, db.QuickCheck(context.Background()))
}

func TestBuildConnectionString(t *testing.T) {
	standard := buildConnectionString("/tmp/x.db", ProfileStandard)
	durable := buildConnectionString("/tmp/x.db", ProfileDurable)

	assert.True(t, strings.HasPrefix(standard, "/tmp/x.db?_pragma=journal_mode(WAL)"))
	assert.Contains(t, standard, "synchronous(NORMAL)")
	assert.Contains(t, durable, "synchronous(FULL)")
	assert.Contains(t, durable, "foreign_keys(1)")
}

func TestMigrate_CreatesRunsTable(t *testing.T) {
	db := newTestDB(t, "autoencoder", ProfileDurable)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate(), "migration is idempotent")

	var name string
	err := db.Conn().QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'runs'").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "runs", name)
}

func TestMigrate_UnknownNameIsNoop(t *testing.T) {
	db := newTestDB(t, "scratch", ProfileStandard)
	assert.NoError(t, db.Migrate())
}

func TestHealthCheckAndStats(t *testing.T) {
	db := newTestDB(t, "autoencoder", ProfileStandard)
	require.NoError(t, db.Migrate())

	assert.NoError(t, db.HealthCheck(context.Background()))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}

func TestWALCheckpoint(t *testing.T) {
	db := newTestDB(t, "autoencoder", ProfileStandard)

	assert.NoError(t, db.WALCheckpoint(""))
	assert.NoError(t, db.WALCheckpoint("PASSIVE"))
	assert.Error(t, db.WALCheckpoint("DROP TABLE runs"))
}
