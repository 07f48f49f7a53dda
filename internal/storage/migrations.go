package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

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
				`CREATE TABLE IF NOT EXISTS vendors (
					email TEXT PRIMARY KEY,
					company_name TEXT NOT NULL,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					phone TEXT,
					company_website TEXT,
					minimum_budget REAL NOT NULL DEFAULT 0,
					additional_info TEXT,
					agree_to_terms INTEGER NOT NULL DEFAULT 0,
					selected_industries TEXT NOT NULL DEFAULT '[]',
					selected_services TEXT NOT NULL DEFAULT '[]',
					leads INTEGER NOT NULL DEFAULT 0,
					active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS buyers (
					email TEXT PRIMARY KEY,
					company_name TEXT NOT NULL,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					phone TEXT,
					industries TEXT NOT NULL DEFAULT '[]',
					active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS buyer_services (
					id TEXT PRIMARY KEY,
					buyer_email TEXT NOT NULL REFERENCES buyers(email),
					service TEXT NOT NULL,
					timeframe TEXT NOT NULL,
					budget TEXT NOT NULL,
					active INTEGER NOT NULL DEFAULT 1,
					position INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_buyer_services_buyer ON buyer_services(buyer_email)`,

				`CREATE TABLE IF NOT EXISTS match_records (
					vendor_email TEXT NOT NULL REFERENCES vendors(email),
					buyer_email TEXT NOT NULL,
					buyer_name TEXT,
					company_name TEXT,
					status TEXT NOT NULL DEFAULT 'pending',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (vendor_email, buyer_email)
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add identity registry for cross-role email uniqueness",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS identities (
					email TEXT PRIMARY KEY,
					role TEXT NOT NULL CHECK (role IN ('vendor', 'buyer')),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				// Backfill from existing profiles; vendors win the rare
				// pre-registry collision.
				`INSERT OR IGNORE INTO identities (email, role)
					SELECT email, 'vendor' FROM vendors`,
				`INSERT OR IGNORE INTO identities (email, role)
					SELECT email, 'buyer' FROM buyers`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index match records by buyer for buyer-side listings",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_match_records_buyer ON match_records(buyer_email)`)
			return err
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
