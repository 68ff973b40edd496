// Package trace persists an audit log of plan executions to SQLite.
//
// The interpreter is deliberately a plain linear loop; this store is
// what makes a run auditable after the fact: one row per run and one
// row per executed instruction, in order.
package trace

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/chazu/planvm/plan"
	"github.com/chazu/planvm/vm"
)

var log = commonlog.GetLogger("planvm.trace")

// Store records plan executions. It implements vm.Tracer for the run
// started with Begin.
type Store struct {
	db *sql.DB
	mu sync.Mutex

	runID   string
	started time.Time
}

// Open opens (creating if needed) a trace database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("trace: opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("trace: setting busy timeout: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			error TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS steps (
			run_id TEXT NOT NULL REFERENCES runs(id),
			idx INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail JSON NOT NULL,
			PRIMARY KEY (run_id, idx)
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("trace: creating table: %w", err)
		}
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Begin starts a new run and returns its id. The store then records
// Step/Done callbacks against that run until the next Begin.
func (s *Store) Begin() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	started := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		id, started.Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("trace: starting run: %w", err)
	}
	s.runID = id
	s.started = started
	return id, nil
}

// Step implements vm.Tracer.
func (s *Store) Step(index int, inst vm.Instruction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == "" {
		return
	}

	detail, err := instructionDetail(inst)
	if err != nil {
		detail = []byte(`{}`)
	}
	// Tracing is best effort: a write failure must not halt the run,
	// but it should not vanish either.
	if _, err := s.db.Exec(
		`INSERT INTO steps (run_id, idx, kind, detail) VALUES (?, ?, ?, ?)`,
		s.runID, index, inst.Kind.String(), string(detail),
	); err != nil {
		log.Errorf("recording step %d of run %s: %s", index, s.runID, err)
	}
}

// Done implements vm.Tracer.
func (s *Store) Done(runErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runID == "" {
		return
	}

	var errText sql.NullString
	if runErr != nil {
		errText = sql.NullString{String: runErr.Error(), Valid: true}
	}
	if _, err := s.db.Exec(
		`UPDATE runs SET finished_at = ?, error = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), errText, s.runID,
	); err != nil {
		log.Errorf("finishing run %s: %s", s.runID, err)
	}
	s.runID = ""
}

// Run is one recorded execution.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Err        string // empty on a completed run
	Steps      []RunStep
}

// RunStep is one executed instruction of a recorded run.
type RunStep struct {
	Index  int
	Kind   string
	Detail string // JSON instruction body
}

// Load reads a recorded run and its steps by id.
func (s *Store) Load(id string) (*Run, error) {
	row := s.db.QueryRow(`SELECT started_at, finished_at, error FROM runs WHERE id = ?`, id)
	var started string
	var finished, errText sql.NullString
	if err := row.Scan(&started, &finished, &errText); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("trace: run %s not found", id)
		}
		return nil, fmt.Errorf("trace: loading run: %w", err)
	}

	run := &Run{ID: id, Err: errText.String}
	run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	if finished.Valid {
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
	}

	rows, err := s.db.Query(`SELECT idx, kind, detail FROM steps WHERE run_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("trace: loading steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var step RunStep
		if err := rows.Scan(&step.Index, &step.Kind, &step.Detail); err != nil {
			return nil, fmt.Errorf("trace: scanning step: %w", err)
		}
		run.Steps = append(run.Steps, step)
	}
	return run, rows.Err()
}

// instructionDetail serializes one instruction using the wire codec,
// so a recorded step reads the same as the plan document it came
// from.
func instructionDetail(inst vm.Instruction) ([]byte, error) {
	single := plan.Plan{Instructions: []vm.Instruction{inst}}
	data, err := json.Marshal(single)
	if err != nil {
		return nil, err
	}
	// Unwrap the single-element array.
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil || len(arr) != 1 {
		return nil, fmt.Errorf("trace: unexpected detail shape")
	}
	return arr[0], nil
}
