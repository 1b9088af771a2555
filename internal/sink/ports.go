// Package sink defines the outbound port that mirrors a saved expense into
// the external spreadsheet, and the failure taxonomy every adapter reports.
//
// A send is a single attempt. Adapters never retry.
package sink

import (
	"context"
	"errors"
	"fmt"

	"expensepad/internal/core"
)

// Sender forwards one finalized expense. A nil error means the remote side
// accepted it; any failure is a *Failure.
type Sender interface {
	Send(ctx context.Context, e core.Expense) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, e core.Expense) error

func (f SenderFunc) Send(ctx context.Context, e core.Expense) error { return f(ctx, e) }

type Reason int

const (
	NotConfigured Reason = iota + 1
	TransportOrServer
)

func (r Reason) String() string {
	switch r {
	case NotConfigured:
		return "not_configured"
	case TransportOrServer:
		return "transport_or_server"
	default:
		return "unknown"
	}
}

var (
	ErrNotConfigured = errors.New("sink not configured")
	ErrTransport     = errors.New("sink transport or server error")
)

// Failure is the error every adapter returns.
type Failure struct {
	Reason Reason
	Err    error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return f.sentinel().Error()
	}
	return fmt.Sprintf("%s: %v", f.sentinel(), f.Err)
}

// Unwrap exposes both the sentinel for the reason and the underlying cause.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.sentinel()}
	}
	return []error{f.sentinel(), f.Err}
}

func (f *Failure) sentinel() error {
	if f.Reason == NotConfigured {
		return ErrNotConfigured
	}
	return ErrTransport
}

// Unconfigured builds a NotConfigured failure naming the missing setting.
func Unconfigured(what string) *Failure {
	return &Failure{Reason: NotConfigured, Err: fmt.Errorf("missing %s", what)}
}

// Transport wraps a network or server-side error.
func Transport(err error) *Failure {
	return &Failure{Reason: TransportOrServer, Err: err}
}

// ReasonOf classifies err. Errors that are not a *Failure count as
// TransportOrServer; nil has no reason.
func ReasonOf(err error) Reason {
	if err == nil {
		return 0
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return TransportOrServer
}
