// Package trace records quasi-static searches in a SQLite database so
// their convergence can be inspected after the fact.
package trace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/san-kum/ddpnode/internal/action"

	_ "modernc.org/sqlite"
)

var ErrSessionNotFound = errors.New("trace session not found")

type Recorder struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewRecorder(path string) *Recorder {
	return &Recorder{path: path}
}

func (r *Recorder) Init(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.path == "" {
		return errors.New("sqlite path is required")
	}
	if r.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", r.path)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	r.db = db
	return nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Recorder) getDB() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.db == nil {
		return nil, errors.New("recorder is not initialized")
	}
	return r.db, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			model TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished INTEGER NOT NULL DEFAULT 0,
			converged INTEGER NOT NULL DEFAULT 0,
			iterations INTEGER NOT NULL DEFAULT 0,
			residual REAL NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS iterations (
			session_id TEXT NOT NULL REFERENCES sessions(id),
			idx INTEGER NOT NULL,
			residual REAL NOT NULL,
			step REAL NOT NULL,
			matrix_rank INTEGER NOT NULL,
			u TEXT NOT NULL,
			PRIMARY KEY (session_id, idx)
		);
	`)
	return err
}

// Session is one recorded QuasiStatic call.
type Session struct {
	ID           string
	Model        string
	Started      time.Time
	Finished     bool
	Converged    bool
	Iterations   int
	ResidualNorm float64
}

// Trace collects the iterations of a single search. Observe is meant to be
// passed to action.WithObserver; the first write error is kept and
// returned by Finish.
type Trace struct {
	rec *Recorder
	ctx context.Context
	id  string
	err error
}

// Begin opens a session for a search on the named model.
func (r *Recorder) Begin(ctx context.Context, model string) (*Trace, error) {
	db, err := r.getDB()
	if err != nil {
		return nil, err
	}

	id := xid.New().String()
	_, err = db.ExecContext(ctx,
		`INSERT INTO sessions (id, model, started_at) VALUES (?, ?, ?)`,
		id, model, time.Now().UnixNano())
	if err != nil {
		return nil, err
	}
	return &Trace{rec: r, ctx: ctx, id: id}, nil
}

func (t *Trace) ID() string { return t.id }

func (t *Trace) Observe(it action.Iteration) {
	if t.err != nil {
		return
	}
	db, err := t.rec.getDB()
	if err != nil {
		t.err = err
		return
	}
	u, err := json.Marshal(it.U)
	if err != nil {
		t.err = err
		return
	}
	_, err = db.ExecContext(t.ctx, `
		INSERT INTO iterations (session_id, idx, residual, step, matrix_rank, u)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.id, it.Index, it.ResidualNorm, it.StepNorm, it.Rank, string(u))
	if err != nil {
		t.err = fmt.Errorf("record iteration %d: %w", it.Index, err)
	}
}

// Finish stores the outcome of the search.
func (t *Trace) Finish(res action.QuasiStaticResult) error {
	if t.err != nil {
		return t.err
	}
	db, err := t.rec.getDB()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(t.ctx, `
		UPDATE sessions SET finished = 1, converged = ?, iterations = ?, residual = ?
		WHERE id = ?
	`, res.Converged, res.Iterations, res.ResidualNorm, t.id)
	return err
}

// Sessions lists recorded sessions, newest first.
func (r *Recorder) Sessions(ctx context.Context) ([]Session, error) {
	db, err := r.getDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, model, started_at, finished, converged, iterations, residual
		FROM sessions ORDER BY started_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			s       Session
			started int64
		)
		if err := rows.Scan(&s.ID, &s.Model, &started, &s.Finished, &s.Converged, &s.Iterations, &s.ResidualNorm); err != nil {
			return nil, err
		}
		s.Started = time.Unix(0, started)
		out = append(out, s)
	}
	return out, rows.Err()
}

// Iterations returns the recorded steps of a session in order.
func (r *Recorder) Iterations(ctx context.Context, sessionID string) ([]action.Iteration, error) {
	db, err := r.getDB()
	if err != nil {
		return nil, err
	}

	var exists int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT idx, residual, step, matrix_rank, u FROM iterations
		WHERE session_id = ? ORDER BY idx
	`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []action.Iteration
	for rows.Next() {
		var (
			it action.Iteration
			u  string
		)
		if err := rows.Scan(&it.Index, &it.ResidualNorm, &it.StepNorm, &it.Rank, &u); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(u), &it.U); err != nil {
			return nil, fmt.Errorf("decode control of iteration %d: %w", it.Index, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
