// Package storage persists the expense state as one named record, loaded
// wholesale at startup and overwritten wholesale after every mutation.
package storage

import (
	"context"
	"fmt"

	"expensepad/internal/core"
	"expensepad/internal/log"
	"expensepad/internal/store"
)

// Bind loads the persisted snapshot (or seeds the default taxonomy when none
// exists) and registers an observer that writes every later change back.
// Save failures are logged, never returned to the mutating caller.
//
// seedURL is used as the sink URL only when nothing has been persisted yet.
func Bind(ctx context.Context, repo Repository, seedURL string) (*store.State, error) {
	snap, found, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	logger := log.FromContext(ctx).WithComponent(log.ComponentStorage)
	var state *store.State
	if found {
		state = store.New(snap)
		logger.InfoContext(ctx, "Loaded persisted state",
			"categories", len(snap.Categories),
			"expenses", len(snap.Expenses),
			"sink_configured", snap.ScriptURL != nil)
	} else {
		state = store.NewSeeded()
		if seedURL != "" {
			state.SetSinkURL(ctx, seedURL)
		}
		if err := repo.Save(ctx, state.Snapshot()); err != nil {
			return nil, fmt.Errorf("save seeded state: %w", err)
		}
		logger.InfoContext(ctx, "Seeded default state", "categories", len(core.DefaultCategories))
	}

	state.Observe(func(ctx context.Context, snap core.Snapshot) {
		if err := repo.Save(context.WithoutCancel(ctx), snap); err != nil {
			logger.ErrorContext(ctx, "Failed to persist state", log.FieldOperation, log.OpPersist, log.FieldError, err)
			return
		}
		logger.DebugContext(ctx, "State persisted", log.FieldOperation, log.OpPersist,
			"categories", len(snap.Categories), "expenses", len(snap.Expenses))
	})
	return state, nil
}
