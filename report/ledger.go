// Package report records fixture run outcomes in an in-memory ledger.
package report

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Ledger stores one row per graded fixture case in an in-memory SQLite
// database. Nothing is ever written to disk; the ledger exists so a run
// can be summarized and failed cases queried after the fact.
type Ledger struct {
	db    *sql.DB
	runID string
}

// Summary aggregates one run's outcomes.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Open creates a fresh in-memory ledger with a unique run id.
func Open() (*Ledger, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	// An in-memory database exists per connection; a second pooled
	// connection would see an empty schema.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS outcomes (
		run_id TEXT NOT NULL,
		case_name TEXT NOT NULL,
		pass INTEGER NOT NULL,
		got_digest TEXT NOT NULL,
		want_digest TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating outcomes table: %w", err)
	}

	return &Ledger{db: db, runID: uuid.New().String()}, nil
}

// RunID returns the unique identifier of this run.
func (l *Ledger) RunID() string {
	return l.runID
}

// Record stores the outcome of one case. Digests identify the compared
// trees; they may be empty when digesting itself failed.
func (l *Ledger) Record(caseName string, pass bool, gotDigest, wantDigest string) error {
	passed := 0
	if pass {
		passed = 1
	}
	_, err := l.db.Exec(
		`INSERT INTO outcomes (run_id, case_name, pass, got_digest, want_digest, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		l.runID, caseName, passed, gotDigest, wantDigest,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording outcome for %q: %w", caseName, err)
	}
	return nil
}

// Summarize aggregates the outcomes recorded in this run.
func (l *Ledger) Summarize() (Summary, error) {
	row := l.db.QueryRow(
		`SELECT COUNT(*), COALESCE(SUM(pass), 0) FROM outcomes WHERE run_id = ?`,
		l.runID,
	)
	var s Summary
	if err := row.Scan(&s.Total, &s.Passed); err != nil {
		return Summary{}, fmt.Errorf("summarizing run %s: %w", l.runID, err)
	}
	s.Failed = s.Total - s.Passed
	return s, nil
}

// Failures returns the names of failed cases in recording order.
func (l *Ledger) Failures() ([]string, error) {
	rows, err := l.db.Query(
		`SELECT case_name FROM outcomes WHERE run_id = ? AND pass = 0 ORDER BY rowid`,
		l.runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying failures: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning failure row: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close releases the underlying database. The recorded outcomes are
// discarded with it.
func (l *Ledger) Close() error {
	return l.db.Close()
}
