// Package store owns the mutable taxonomy and expense collection.
//
// State is the single container both stores hang off. Every effective
// mutation publishes a snapshot to the registered observers while the state
// lock is held, so observers see snapshots in mutation order. Observers must
// not call back into State.
package store

import (
	"context"
	"sync"

	"expensepad/internal/core"
)

// Observer receives a deep copy of the state after each change.
type Observer func(ctx context.Context, snap core.Snapshot)

type State struct {
	mu         sync.Mutex
	categories []core.Category
	expenses   []core.Expense
	scriptURL  *string
	observers  []Observer
}

// New builds a state from a previously persisted snapshot.
func New(snap core.Snapshot) *State {
	snap = snap.Clone()
	return &State{
		categories: snap.Categories,
		expenses:   snap.Expenses,
		scriptURL:  snap.ScriptURL,
	}
}

// NewSeeded builds the first-run state: default taxonomy, no expenses.
func NewSeeded() *State {
	return New(core.Snapshot{Categories: core.SeedCategories()})
}

// Observe registers o for every subsequent change.
func (s *State) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

func (s *State) Snapshot() core.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *State) Categories() *Categories { return &Categories{s: s} }

func (s *State) Expenses() *Expenses { return &Expenses{s: s} }

// SinkURL returns the configured remote endpoint, or "" when unset.
func (s *State) SinkURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scriptURL == nil {
		return ""
	}
	return *s.scriptURL
}

// SetSinkURL stores the remote endpoint. An empty url unsets it.
func (s *State) SetSinkURL(ctx context.Context, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if url == "" {
		s.scriptURL = nil
	} else {
		s.scriptURL = &url
	}
	s.notifyLocked(ctx)
}

func (s *State) snapshotLocked() core.Snapshot {
	return core.Snapshot{
		Categories: s.categories,
		Expenses:   s.expenses,
		ScriptURL:  s.scriptURL,
	}.Clone()
}

func (s *State) notifyLocked(ctx context.Context) {
	if len(s.observers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, o := range s.observers {
		o(ctx, snap)
	}
}
