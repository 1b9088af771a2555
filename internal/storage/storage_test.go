package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensepad/internal/core"
	"expensepad/internal/log"
)

func repositories(t *testing.T) map[string]func(t *testing.T, dir string) Repository {
	return map[string]func(t *testing.T, dir string) Repository{
		"sqlite": func(t *testing.T, dir string) Repository {
			repo, err := NewSQLiteRepository(filepath.Join(dir, "data", "state.db"), "")
			require.NoError(t, err)
			return repo
		},
		"file": func(t *testing.T, dir string) Repository {
			repo, err := NewFileRepository(filepath.Join(dir, "data", "state.json"))
			require.NoError(t, err)
			return repo
		},
	}
}

func TestRepositoryRoundTrip(t *testing.T) {
	for name, open := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			repo := open(t, dir)

			_, found, err := repo.Load(ctx)
			require.NoError(t, err)
			assert.False(t, found)

			url := "https://script.example/exec"
			snap := core.Snapshot{
				Categories: core.SeedCategories(),
				Expenses: []core.Expense{{
					ID: "1", Date: core.NewDate(2025, 2, 3), Category: "Food", Subcategory: "Groceries",
					Quantity: 3, UnitPrice: 50, TotalAmount: 150,
				}},
				ScriptURL: &url,
			}
			require.NoError(t, repo.Save(ctx, snap))
			require.NoError(t, repo.Save(ctx, snap), "save overwrites")
			require.NoError(t, repo.Close())

			reopened := open(t, dir)
			defer reopened.Close()
			got, found, err := reopened.Load(ctx)
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, snap.Categories, got.Categories)
			require.Len(t, got.Expenses, 1)
			assert.Equal(t, int64(150), got.Expenses[0].TotalAmount)
			assert.Equal(t, 0, got.Expenses[0].Date.Compare(core.NewDate(2025, 2, 3)))
			require.NotNil(t, got.ScriptURL)
			assert.Equal(t, url, *got.ScriptURL)
		})
	}
}

func TestBindSeedsAndPersistsMutations(t *testing.T) {
	for name, open := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			repo := open(t, dir)

			state, err := Bind(ctx, repo, "https://seed.example")
			require.NoError(t, err)
			assert.Equal(t, "https://seed.example", state.SinkURL())

			state.Categories().Add(ctx, "Pets")
			state.Expenses().Add(ctx, core.Expense{ID: "e1", Date: core.NewDate(2025, 1, 1), Category: "Pets", Quantity: 1})
			require.NoError(t, repo.Close())

			reopened := open(t, dir)
			defer reopened.Close()
			again, err := Bind(ctx, reopened, "https://ignored.example")
			require.NoError(t, err)
			assert.Equal(t, "https://seed.example", again.SinkURL(), "persisted url wins over seed")
			_, ok := again.Categories().Get("Pets")
			assert.True(t, ok)
			assert.Equal(t, 1, again.Expenses().Len())
		})
	}
}

func TestFileRepositoryRejectsCorruptState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo, err := NewFileRepository(path)
	require.NoError(t, err)
	_, _, err = repo.Load(context.Background())
	assert.Error(t, err)

	_, err = Bind(context.Background(), repo, "")
	assert.Error(t, err)
}

func TestSQLiteRecordNamesAreIndependent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	a, err := NewSQLiteRepository(path, "alpha")
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Save(ctx, core.Snapshot{Categories: core.SeedCategories()}))

	b, err := NewSQLiteRepository(path, "beta")
	require.NoError(t, err)
	defer b.Close()
	_, found, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

// flakyRepository accepts the seed and fails every later save.
type flakyRepository struct {
	saves int
}

func (r *flakyRepository) Load(context.Context) (core.Snapshot, bool, error) {
	return core.Snapshot{}, false, nil
}

func (r *flakyRepository) Save(context.Context, core.Snapshot) error {
	r.saves++
	if r.saves > 1 {
		return errors.New("disk full")
	}
	return nil
}

func (r *flakyRepository) Close() error { return nil }

func TestBindLogsPersistFailures(t *testing.T) {
	var buf bytes.Buffer
	ctx := log.WithLogger(context.Background(), log.New(log.Config{JSON: true, Output: &buf}))
	repo := &flakyRepository{}

	state, err := Bind(ctx, repo, "")
	require.NoError(t, err)
	state.Categories().Add(context.Background(), "Pets")

	assert.Equal(t, 2, repo.saves)
	_, ok := state.Categories().Get("Pets")
	assert.True(t, ok, "a failed save never rolls back the mutation")
	out := buf.String()
	assert.Contains(t, out, `"operation":"persist"`)
	assert.Contains(t, out, `"component":"storage"`)
	assert.Contains(t, out, "disk full")
}
