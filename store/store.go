// Package store persists confirmed prover verdicts in SQLite so repeated
// runs over the same construction skip the symbolic work.
//
// Keys come from prover: the relation signature plus a digest of the
// solved forms it depends on. A key never changes meaning, so rows are
// insert-or-replace and never expire.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/katalvlaran/geodiscover/prover"
)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("store: archive is closed")

const schema = `
CREATE TABLE IF NOT EXISTS verdicts (
	key        TEXT PRIMARY KEY,
	verdict    INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// Archive is a SQLite-backed prover.Archive. It is safe for concurrent use.
type Archive struct {
	mu     sync.RWMutex
	db     *sql.DB
	path   string
	closed bool
}

var _ prover.Archive = (*Archive)(nil)

// Open opens or creates the archive at path. ":memory:" keeps it in memory.
func Open(path string) (*Archive, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("Open %s: %w", path, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("Open %s: %w", path, err)
	}
	// one connection: an in-memory database is private to its connection
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("Open %s: schema: %w", path, err)
	}

	return &Archive{db: db, path: path}, nil
}

// Path returns the database path.
func (a *Archive) Path() string { return a.path }

// Load implements prover.Archive.
func (a *Archive) Load(ctx context.Context, key string) (prover.Verdict, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return prover.Inconclusive, false, ErrClosed
	}

	var v int
	err := a.db.QueryRowContext(ctx, `SELECT verdict FROM verdicts WHERE key = ?`, key).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return prover.Inconclusive, false, nil
	case err != nil:
		return prover.Inconclusive, false, fmt.Errorf("Load %s: %w", key, err)
	}

	return prover.Verdict(v), true, nil
}

// Save implements prover.Archive. Inconclusive verdicts are not stored.
func (a *Archive) Save(ctx context.Context, key string, v prover.Verdict) error {
	if v == prover.Inconclusive {
		return nil
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}

	_, err := a.db.ExecContext(ctx, `INSERT OR REPLACE INTO verdicts (key, verdict) VALUES (?, ?)`, key, int(v))
	if err != nil {
		return fmt.Errorf("Save %s: %w", key, err)
	}

	return nil
}

// Len returns the number of stored verdicts.
func (a *Archive) Len(ctx context.Context) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return 0, ErrClosed
	}

	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM verdicts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("Len: %w", err)
	}

	return n, nil
}

// Close closes the database. Later calls return ErrClosed.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	return a.db.Close()
}
