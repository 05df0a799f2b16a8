// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/synabon/synabon/internal/models"
	"github.com/synabon/synabon/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveDataset persists a dataset under a name, replacing any previous dataset
// with the same name.
func (s *SQLiteStore) SaveDataset(ctx context.Context, name string, d models.Dataset) error {
	if name == "" {
		return fmt.Errorf("dataset name must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO datasets (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO UPDATE SET created_at = excluded.created_at",
		name, time.Now().Unix(),
	); err != nil {
		return fmt.Errorf("failed to upsert dataset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM events WHERE dataset_name = ?", name); err != nil {
		return fmt.Errorf("failed to clear previous events: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events (dataset_name, user_id, user_balance, interaction_sum,
			interaction_type, transaction_commission, country, device, date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range d {
		if _, err := stmt.ExecContext(ctx,
			name, r.UserID, r.Balance, nullable(r.Amount), string(r.Type),
			nullable(r.Commission), r.Country, r.Device, r.Date.Unix(),
		); err != nil {
			return fmt.Errorf("failed to insert event: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}

// LoadDataset retrieves a dataset by name, ordered by date ascending with ties
// kept in insertion order.
func (s *SQLiteStore) LoadDataset(ctx context.Context, name string) (models.Dataset, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM datasets WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to look up dataset: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("dataset %q not found", name)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, user_balance, interaction_sum, interaction_type,
			transaction_commission, country, device, date
		FROM events WHERE dataset_name = ?
		ORDER BY date, rowid`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var d models.Dataset
	for rows.Next() {
		var (
			r          models.Record
			kind       string
			amount     sql.NullFloat64
			commission sql.NullFloat64
			unix       int64
		)
		if err := rows.Scan(&r.UserID, &r.Balance, &amount, &kind,
			&commission, &r.Country, &r.Device, &unix); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		r.Type = models.InteractionType(kind)
		if amount.Valid {
			v := amount.Float64
			r.Amount = &v
		}
		if commission.Valid {
			v := commission.Float64
			r.Commission = &v
		}
		r.Date = time.Unix(unix, 0).UTC()
		d = append(d, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return d, nil
}

// ListDatasets returns the names of all saved datasets, oldest first.
func (s *SQLiteStore) ListDatasets(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM datasets ORDER BY created_at, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dataset name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
