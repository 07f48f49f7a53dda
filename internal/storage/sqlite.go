package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
	"github.com/reachly/leadmatch/internal/common"
	"github.com/reachly/leadmatch/internal/model"
)

// SQLiteStorage implements the service.Storage interface using SQLite.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection serializes concurrent accept transitions; SQLite
	// doesn't benefit from more.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// GetRole looks up which side of the marketplace claimed an email.
func (s *SQLiteStorage) GetRole(ctx context.Context, email string) (model.Role, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(email, "email"); err != nil {
		return "", err
	}

	var role model.Role
	err := s.db.QueryRowContext(ctx, `
		SELECT role FROM identities WHERE email = ?
	`, email).Scan(&role)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("email %s: %w", email, common.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}
	return role, nil
}

// claimEmail inserts the email into the identity registry inside the given
// transaction. The primary key makes the cross-role uniqueness check atomic
// with profile creation.
func claimEmail(ctx context.Context, tx *sql.Tx, email string, role model.Role) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO identities (email, role) VALUES (?, ?)
	`, email, role)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", email, common.ErrDuplicateEmail)
		}
		return fmt.Errorf("failed to claim email: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint
	}
	return false
}

// queryable abstracts *sql.DB and *sql.Tx for read paths.
type queryable interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// marshalStrings encodes a string slice as the JSON stored in TEXT columns.
func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(raw), nil
}

// unmarshalStrings decodes a JSON TEXT column back into a string slice.
func unmarshalStrings(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string list: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}
