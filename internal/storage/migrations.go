package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects.
const ExpectedSchemaVersion = 1

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS extraction_runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					bank_format TEXT NOT NULL,
					success INTEGER NOT NULL,
					total_transactions INTEGER NOT NULL,
					valid_transactions INTEGER NOT NULL,
					invalid_transactions INTEGER NOT NULL,
					opening_balance TEXT,
					closing_balance TEXT,
					total_debits TEXT NOT NULL,
					total_credits TEXT NOT NULL,
					lines_processed INTEGER NOT NULL,
					extracted_at DATETIME NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_runs_extracted ON extraction_runs(extracted_at)`,

				`CREATE TABLE IF NOT EXISTS run_transactions (
					run_id INTEGER NOT NULL,
					transaction_id TEXT NOT NULL,
					date TEXT NOT NULL,
					description TEXT NOT NULL,
					debit TEXT,
					credit TEXT,
					amount TEXT NOT NULL,
					balance TEXT,
					transaction_type TEXT,
					processing_status TEXT NOT NULL,
					notes TEXT,
					raw_line TEXT,
					line_number INTEGER,
					PRIMARY KEY (run_id, transaction_id),
					FOREIGN KEY (run_id) REFERENCES extraction_runs(id)
				)`,
				`CREATE INDEX idx_run_transactions_date ON run_transactions(date)`,

				`CREATE TABLE IF NOT EXISTS run_findings (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id INTEGER NOT NULL,
					kind TEXT NOT NULL CHECK (kind IN ('error', 'warning')),
					code TEXT NOT NULL,
					message TEXT NOT NULL,
					severity TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					FOREIGN KEY (run_id) REFERENCES extraction_runs(id)
				)`,
				`CREATE INDEX idx_run_findings_run ON run_findings(run_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *Store) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.Version <= version {
			continue
		}

		slog.Info("Applying migration", "version", m.Version, "description", m.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", m.Version, err)
		}

		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.Version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}
