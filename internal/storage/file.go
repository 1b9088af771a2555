package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"expensepad/internal/core"
)

// FileRepository keeps the state record as one JSON document on disk.
// Writes go to a temp file first and are renamed into place.
type FileRepository struct {
	mu   sync.Mutex
	path string
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileRepository{path: path}, nil
}

func (r *FileRepository) Load(_ context.Context) (core.Snapshot, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("read state file: %w", err)
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		return core.Snapshot{}, false, fmt.Errorf("decode state file %s: %w", r.path, err)
	}
	return snap, true, nil
}

func (r *FileRepository) Save(ctx context.Context, snap core.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}

	slog.DebugContext(ctx, "State saved to file", "path", r.path, "expenses", len(snap.Expenses))
	return nil
}

func (r *FileRepository) Close() error { return nil }
