package amqp

import (
	"encoding/json"
	"time"

	"expensepad/internal/core"
)

// ExpenseMessage carries a finalized expense to the relay worker.
// The full expense travels in the message; the relay has no local store.
type ExpenseMessage struct {
	Expense   core.Expense `json:"expense"`
	Timestamp time.Time    `json:"timestamp"`
}

// NewExpenseMessage creates a message stamped with the current time
func NewExpenseMessage(e core.Expense) *ExpenseMessage {
	return &ExpenseMessage{
		Expense:   e,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseMessageFromJSON decodes a message body
func ExpenseMessageFromJSON(data []byte) (*ExpenseMessage, error) {
	var msg ExpenseMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
