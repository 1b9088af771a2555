package core

import (
	"github.com/google/uuid"
)

// NewExpenseID returns a time-ordered UUIDv7, falling back to a random v4
// when the v7 generator fails.
func NewExpenseID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
