package autoencoder

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/qae/internal/domain"
	"github.com/aristath/qae/internal/modules/optimization"
	"github.com/aristath/qae/internal/modules/quantum"
)

// Run is a persisted training run.
type Run struct {
	ID             string
	Topology       quantum.Topology
	NumRef         int
	CostMode       optimization.CostMode
	Seed           uint64
	Params         []float64
	Rounds         []Round
	TestFidelities []float64
	StartedAt      time.Time
	FinishedAt     time.Time
}

// FinalRound returns the last round, if any.
func (r Run) FinalRound() (Round, bool) {
	if len(r.Rounds) == 0 {
		return Round{}, false
	}
	return r.Rounds[len(r.Rounds)-1], true
}

// RunRepository stores runs in the autoencoder database.
// Params, rounds and test fidelities are msgpack BLOBs.
type RunRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRunRepository creates a run repository.
func NewRunRepository(db *sql.DB, log zerolog.Logger) *RunRepository {
	return &RunRepository{
		db:  db,
		log: log.With().Str("repository", "runs").Logger(),
	}
}

// Save inserts a run, assigning an ID when empty.
func (r *RunRepository) Save(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	params, err := msgpack.Marshal(run.Params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	rounds, err := msgpack.Marshal(run.Rounds)
	if err != nil {
		return fmt.Errorf("failed to encode rounds: %w", err)
	}
	testFidelities, err := msgpack.Marshal(run.TestFidelities)
	if err != nil {
		return fmt.Errorf("failed to encode test fidelities: %w", err)
	}

	query := `
		INSERT INTO runs (id, topology, num_ref, cost_mode, seed, params, rounds, test_fidelities, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query,
		run.ID,
		string(run.Topology),
		run.NumRef,
		string(run.CostMode),
		int64(run.Seed),
		params,
		rounds,
		testFidelities,
		run.StartedAt.Unix(),
		run.FinishedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	r.log.Debug().Str("id", run.ID).Str("topology", string(run.Topology)).Msg("Run saved")
	return nil
}

// Get returns the run with the given ID or ErrNotFound.
func (r *RunRepository) Get(id string) (*Run, error) {
	query := `
		SELECT id, topology, num_ref, cost_mode, seed, params, rounds, test_fidelities, started_at, finished_at
		FROM runs WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// List returns runs newest first. An empty topology matches all; limit <= 0
// means no limit.
func (r *RunRepository) List(topology quantum.Topology, limit int) ([]Run, error) {
	query := `
		SELECT id, topology, num_ref, cost_mode, seed, params, rounds, test_fidelities, started_at, finished_at
		FROM runs
		WHERE (? = '' OR topology = ?)
		ORDER BY finished_at DESC, id
	`
	args := []interface{}{string(topology), string(topology)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

// Count returns the number of stored runs.
func (r *RunRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return n, nil
}

// DeleteFinishedBefore removes runs that finished before cutoff and returns
// the number deleted.
func (r *RunRepository) DeleteFinishedBefore(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM runs WHERE finished_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.log.Debug().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("Old runs deleted")
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run                            Run
		topology, costMode             string
		seed, startedAt, finishedAt    int64
		params, rounds, testFidelities []byte
	)
	if err := row.Scan(
		&run.ID,
		&topology,
		&run.NumRef,
		&costMode,
		&seed,
		&params,
		&rounds,
		&testFidelities,
		&startedAt,
		&finishedAt,
	); err != nil {
		return nil, err
	}

	run.Topology = quantum.Topology(topology)
	run.CostMode = optimization.CostMode(costMode)
	run.Seed = uint64(seed)
	run.StartedAt = time.Unix(startedAt, 0).UTC()
	run.FinishedAt = time.Unix(finishedAt, 0).UTC()

	if err := msgpack.Unmarshal(params, &run.Params); err != nil {
		return nil, fmt.Errorf("failed to decode params: %w", err)
	}
	if err := msgpack.Unmarshal(rounds, &run.Rounds); err != nil {
		return nil, fmt.Errorf("failed to decode rounds: %w", err)
	}
	if len(testFidelities) > 0 {
		if err := msgpack.Unmarshal(testFidelities, &run.TestFidelities); err != nil {
			return nil, fmt.Errorf("failed to decode test fidelities: %w", err)
		}
	}
	return &run, nil
}
