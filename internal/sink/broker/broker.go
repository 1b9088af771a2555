// Package broker hands expenses to a message broker; the relay worker
// appends them to the spreadsheet.
package broker

import (
	"context"

	"expensepad/internal/core"
	"expensepad/internal/sink"
)

// Publisher is satisfied by *amqp.Client.
type Publisher interface {
	PublishExpense(ctx context.Context, e core.Expense) error
}

var _ sink.Sender = (*Sender)(nil)

type Sender struct {
	pub Publisher
}

// New wraps pub. A nil publisher yields a sender that is never configured.
func New(pub Publisher) *Sender {
	return &Sender{pub: pub}
}

func (s *Sender) Send(ctx context.Context, e core.Expense) error {
	if s.pub == nil {
		return sink.Unconfigured("broker connection")
	}
	if err := s.pub.PublishExpense(ctx, e); err != nil {
		return sink.Transport(err)
	}
	return nil
}
