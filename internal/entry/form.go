// Package entry drives the expense entry form: draft rows, inline creation
// and removal of categories, and the submit sequence that mirrors each row
// to the sink before committing it locally.
package entry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"expensepad/internal/core"
	"expensepad/internal/log"
	"expensepad/internal/sink"
	"expensepad/internal/store"
)

var (
	ErrRowNotFound        = errors.New("draft row not found")
	ErrDefaultCategory    = errors.New("default categories cannot be removed")
	ErrDefaultSubcategory = errors.New("default subcategories cannot be removed")
	ErrDeclined           = errors.New("action not confirmed")
	ErrCategoryExists     = errors.New("category already exists")
	ErrSubcategoryExists  = errors.New("subcategory already exists")
	ErrUnknownCategory    = errors.New("unknown category")
)

// NoRow tells CreateCategory and CreateSubcategory not to touch any draft.
const NoRow = -1

type Options struct {
	// KeepFailedRows leaves rows whose send failed in the form instead of
	// discarding them with the rest.
	KeepFailedRows bool
	// CommitWhenUnconfigured saves rows locally when the sink reports
	// NotConfigured.
	CommitWhenUnconfigured bool
}

type Option func(*Form)

func WithOptions(o Options) Option { return func(f *Form) { f.opts = o } }

func WithNotifier(n Notifier) Option { return func(f *Form) { f.notifier = n } }

func WithLogger(l *log.Logger) Option { return func(f *Form) { f.logger = l.WithComponent(log.ComponentEntry) } }

// WithClock replaces core.Today for new rows.
func WithClock(today func() core.Date) Option { return func(f *Form) { f.today = today } }

// WithIDs replaces core.NewExpenseID.
func WithIDs(newID func() string) Option { return func(f *Form) { f.newID = newID } }

// Form is safe for concurrent use. Submit holds the form for the whole
// sequence, so rows are sent one at a time in order.
type Form struct {
	mu       sync.Mutex
	rows     []Draft
	state    *store.State
	sender   sink.Sender
	notifier Notifier
	logger   *log.Logger
	opts     Options
	today    func() core.Date
	newID    func() string
}

func New(state *store.State, sender sink.Sender, opts ...Option) *Form {
	f := &Form{
		state:    state,
		sender:   sender,
		notifier: nopNotifier{},
		logger:   log.New(log.DefaultConfig()).WithComponent(log.ComponentEntry),
		today:    core.Today,
		newID:    core.NewExpenseID,
	}
	for _, opt := range opts {
		opt(f)
	}
	f.rows = []Draft{NewDraft(f.today())}
	return f
}

// Rows returns a copy of the current drafts.
func (f *Form) Rows() []Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Draft(nil), f.rows...)
}

// AddRow appends a default row and returns its index.
func (f *Form) AddRow() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, NewDraft(f.today()))
	return len(f.rows) - 1
}

// RemoveRow deletes row i. The form may end up with no rows.
func (f *Form) RemoveRow(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.rows) {
		return ErrRowNotFound
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return nil
}

// Update applies edit to row i and returns the updated row. An edit whose
// resulting total would overflow is rejected and leaves the row unchanged.
func (f *Form) Update(i int, edit Edit) (Draft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i < 0 || i >= len(f.rows) {
		return Draft{}, ErrRowNotFound
	}
	next := f.rows[i]
	edit.apply(&next)
	if _, err := core.CheckedTotal(next.Quantity, next.UnitPrice); err != nil {
		return Draft{}, &core.ValidationError{
			Field:  "total",
			Value:  fmt.Sprintf("%d x %d", next.Quantity, next.UnitPrice),
			Reason: "quantity times unit price exceeds the largest storable amount",
		}
	}
	f.rows[i] = next
	return next, nil
}

// Outcome is the result of one submitted row.
type Outcome struct {
	Row       int          `json:"row"`
	Expense   core.Expense `json:"expense"`
	Committed bool         `json:"committed"`
	Err       error        `json:"-"`
}

type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

func (r Report) Committed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Committed {
			n++
		}
	}
	return n
}

func (r Report) Failed() int {
	return len(r.Outcomes) - r.Committed()
}

// Submit sends every row in order. A row is committed to the expense store
// only once the sink accepted it; failures are reported and never retried.
// The form then holds a single default row (plus the failed rows when
// KeepFailedRows is set).
func (f *Form) Submit(ctx context.Context) Report {
	f.mu.Lock()
	defer f.mu.Unlock()

	var (
		report Report
		kept   []Draft
	)
	for i, d := range f.rows {
		e := d.Expense(f.newID())
		out := Outcome{Row: i, Expense: e}

		err := f.sender.Send(ctx, e)
		if err != nil && f.opts.CommitWhenUnconfigured && errors.Is(err, sink.ErrNotConfigured) {
			f.logger.WarnContext(ctx, "Sink not configured, saving locally only", log.FieldExpenseID, e.ID)
			err = nil
		}

		if err != nil {
			out.Err = err
			fields := log.NewFields().
				WithRequestID(log.RequestID(ctx)).
				WithOperation(log.OpSubmit).
				WithExpense(e.ID, e.Category, e.Subcategory, e.TotalAmount).
				WithError(err)
			fields[log.FieldRow] = i
			fields[log.FieldReason] = sink.ReasonOf(err).String()
			f.logger.ErrorContext(ctx, "Expense not saved", fields.ToSlice()...)
			f.notifier.Failure(ctx, i, err)
			if f.opts.KeepFailedRows {
				kept = append(kept, d)
			}
		} else {
			f.state.Expenses().Add(ctx, e)
			out.Committed = true
			f.logger.InfoContext(ctx, "Expense saved", log.NewFields().
				WithRequestID(log.RequestID(ctx)).
				WithOperation(log.OpSubmit).
				WithExpense(e.ID, e.Category, e.Subcategory, e.TotalAmount).
				ToSlice()...)
			f.notifier.Success(ctx, e)
		}
		report.Outcomes = append(report.Outcomes, out)
	}

	if len(kept) > 0 {
		f.rows = kept
	} else {
		f.rows = []Draft{NewDraft(f.today())}
	}
	return report
}
