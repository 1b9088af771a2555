package store

import (
	"context"
	"iter"
	"slices"

	"expensepad/internal/core"
)

// PageSize is how many rows the collapsed history shows.
const PageSize = 5

// Expenses is the expense store view of a State.
type Expenses struct {
	s *State
}

// Add appends e. The id is trusted as given.
func (x *Expenses) Add(ctx context.Context, e core.Expense) {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	x.s.expenses = append(slices.Clip(x.s.expenses), e)
	x.s.notifyLocked(ctx)
}

// Remove deletes the first expense with the given id; unknown ids are ignored.
func (x *Expenses) Remove(ctx context.Context, id string) bool {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	i := slices.IndexFunc(x.s.expenses, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return false
	}
	x.s.expenses = slices.Delete(slices.Clone(x.s.expenses), i, i+1)
	x.s.notifyLocked(ctx)
	return true
}

func (x *Expenses) Len() int {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	return len(x.s.expenses)
}

// All returns a copy in insertion order.
func (x *Expenses) All() []core.Expense {
	x.s.mu.Lock()
	defer x.s.mu.Unlock()
	return slices.Clone(x.s.expenses)
}

// SortedDescendingByDate yields the newest expenses first. Equal dates keep
// insertion order. Each range over the sequence re-reads the store.
func (x *Expenses) SortedDescendingByDate() iter.Seq[core.Expense] {
	return func(yield func(core.Expense) bool) {
		for _, e := range x.sorted() {
			if !yield(e) {
				return
			}
		}
	}
}

// VisibleSlice returns every sorted expense when showAll is set, otherwise
// at most PageSize of the newest.
func (x *Expenses) VisibleSlice(showAll bool) []core.Expense {
	sorted := x.sorted()
	if !showAll && len(sorted) > PageSize {
		return sorted[:PageSize]
	}
	return sorted
}

func (x *Expenses) sorted() []core.Expense {
	out := x.All()
	slices.SortStableFunc(out, func(a, b core.Expense) int {
		return b.Date.Compare(a.Date)
	})
	return out
}
