package metric

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS results (
	run_id TEXT NOT NULL,
	pid INTEGER NOT NULL,
	name TEXT,
	path TEXT,
	correlation REAL,
	avg_bytes_per_interval REAL,
	threshold REAL NOT NULL,
	detected INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS intervals (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	keys_requested INTEGER NOT NULL,
	keys_sent INTEGER NOT NULL,
	tracked_processes INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	idle_duration_ms INTEGER NOT NULL
);`

// saveSQLite persists both record kinds into a single database file. Callers
// hold the exporter mutex.
func (ep *Exporter) saveSQLite(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSchema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range ep.resultRecords {
		_, err := tx.Exec(
			`INSERT INTO results VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.Pid, r.Name, r.Path, r.Correlation, r.AvgBytesPerInterval, r.Threshold, r.Detected,
		)
		if err != nil {
			return fmt.Errorf("inserting result for pid %d: %w", r.Pid, err)
		}
	}

	for _, r := range ep.intervalRecords {
		_, err := tx.Exec(
			`INSERT INTO intervals VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.RunID, r.IntervalIdx, r.KeysRequested, r.KeysSent, r.TrackedProcesses, r.DurationMs, r.IdleDurationMs,
		)
		if err != nil {
			return fmt.Errorf("inserting interval %d: %w", r.IntervalIdx, err)
		}
	}

	return tx.Commit()
}
