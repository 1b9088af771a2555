package entry

import (
	"context"

	"expensepad/internal/core"
)

// Notifier surfaces per-row submit results to the user.
type Notifier interface {
	Success(ctx context.Context, e core.Expense)
	Failure(ctx context.Context, row int, err error)
}

type nopNotifier struct{}

func (nopNotifier) Success(context.Context, core.Expense) {}
func (nopNotifier) Failure(context.Context, int, error)   {}

// Confirmer asks the user to approve a change to the taxonomy.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Answer is a Confirmer that always replies the same way, for callers that
// collected the user's decision up front.
type Answer bool

func (a Answer) Confirm(context.Context, string) bool { return bool(a) }
