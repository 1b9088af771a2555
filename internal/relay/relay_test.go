package relay

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensepad/internal/amqp"
	"expensepad/internal/core"
	"expensepad/internal/sink"
	"expensepad/internal/sink/memory"
)

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()
	rec := memory.New()
	r := New(rec, nil)

	require.NoError(t, r.HandleMessage(ctx, amqp.NewExpenseMessage(core.Expense{ID: "e-1", Quantity: 1})))
	assert.Len(t, rec.Sent(), 1)

	err := r.HandleMessage(ctx, amqp.NewExpenseMessage(core.Expense{Quantity: 1}))
	assert.ErrorIs(t, err, core.ErrEmptyID)

	rec.FailWith(sink.Unconfigured("spreadsheet id"))
	err = r.HandleMessage(ctx, amqp.NewExpenseMessage(core.Expense{ID: "e-2", Quantity: 1}))
	assert.ErrorIs(t, err, sink.ErrNotConfigured)
	assert.Len(t, rec.Sent(), 1)
}
