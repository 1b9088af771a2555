package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"expensepad/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultRecordName is the key the whole state is stored under.
const DefaultRecordName = "expense-store"

// Repository loads and overwrites the single persisted state record.
type Repository interface {
	// Load returns the stored snapshot and whether one existed.
	Load(ctx context.Context) (core.Snapshot, bool, error)
	// Save overwrites the stored snapshot.
	Save(ctx context.Context, snap core.Snapshot) error
	Close() error
}

var (
	_ Repository = (*SQLiteRepository)(nil)
	_ Repository = (*FileRepository)(nil)
)

type SQLiteRepository struct {
	db     *sql.DB
	record string
}

func NewSQLiteRepository(dbPath, record string) (*SQLiteRepository, error) {
	if record == "" {
		record = DefaultRecordName
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; snapshots are small and written in order.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, record: record}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Load(ctx context.Context) (core.Snapshot, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM state_records WHERE name = ?`, r.record).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("load state record %q: %w", r.record, err)
	}

	snap, err := decodeSnapshot([]byte(payload))
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("decode state record %q: %w", r.record, err)
	}
	return snap, true, nil
}

func (r *SQLiteRepository) Save(ctx context.Context, snap core.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO state_records (name, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		r.record, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save state record %q: %w", r.record, err)
	}

	slog.DebugContext(ctx, "State saved to SQLite",
		"record", r.record,
		"categories", len(snap.Categories),
		"expenses", len(snap.Expenses))
	return nil
}

func decodeSnapshot(data []byte) (core.Snapshot, error) {
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return core.Snapshot{}, err
	}
	return snap, nil
}
