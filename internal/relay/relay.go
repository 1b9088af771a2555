// Package relay forwards broker messages to the spreadsheet sink.
package relay

import (
	"context"
	"fmt"

	"expensepad/internal/amqp"
	"expensepad/internal/log"
	"expensepad/internal/sink"
)

// Relay appends every consumed expense through a sink.Sender.
type Relay struct {
	sender sink.Sender
	logger *log.Logger
}

func New(sender sink.Sender, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &Relay{sender: sender, logger: logger.WithComponent(log.ComponentRelay)}
}

// HandleMessage sends one expense. The error makes the consumer reject the
// delivery; nothing is retried.
func (r *Relay) HandleMessage(ctx context.Context, msg *amqp.ExpenseMessage) error {
	e := msg.Expense
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid expense %q: %w", e.ID, err)
	}
	if err := r.sender.Send(ctx, e); err != nil {
		return fmt.Errorf("relay expense %q: %w", e.ID, err)
	}
	r.logger.InfoContext(ctx, "Expense relayed", log.NewFields().
		WithOperation(log.OpSend).
		WithExpense(e.ID, e.Category, e.Subcategory, e.TotalAmount).
		ToSlice()...)
	return nil
}
