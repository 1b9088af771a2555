// Package memory is an in-process sink that records every expense it accepts.
package memory

import (
	"context"
	"sync"

	"expensepad/internal/core"
	"expensepad/internal/sink"
)

var _ sink.Sender = (*Recorder)(nil)

type Recorder struct {
	mu    sync.Mutex
	items []core.Expense
	fail  error
}

func New() *Recorder {
	return &Recorder{}
}

// FailWith makes every later Send return err; nil restores success.
func (r *Recorder) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

// Send stores the expense unless a failure is armed.
func (r *Recorder) Send(_ context.Context, e core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.items = append(r.items, e)
	return nil
}

// Sent returns a copy of everything accepted so far.
func (r *Recorder) Sent() []core.Expense {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Expense(nil), r.items...)
}
