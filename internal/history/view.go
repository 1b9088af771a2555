// Package history projects the expense store into the table shown under the
// entry form: newest first, collapsed to the latest few rows until expanded.
package history

import (
	"sync"

	"expensepad/internal/core"
	"expensepad/internal/store"
)

// DisplayDate is how dates appear in the table.
const DisplayDate = "2 Jan 2006"

// Row is one formatted history line.
type Row struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Recipient   string `json:"recipient"`
	Total       string `json:"total"`
}

func RowOf(e core.Expense) Row {
	return Row{
		ID:          e.ID,
		Date:        e.Date.Format(DisplayDate),
		Category:    e.Category,
		Subcategory: e.Subcategory,
		Description: e.Description,
		Quantity:    e.Quantity,
		UnitPrice:   core.FormatCurrency(e.UnitPrice),
		Recipient:   e.Recipient,
		Total:       core.FormatCurrency(e.TotalAmount),
	}
}

// View holds only the show-all flag; rows are recomputed on every read.
type View struct {
	mu       sync.Mutex
	expenses *store.Expenses
	showAll  bool
}

func New(expenses *store.Expenses) *View {
	return &View{expenses: expenses}
}

// Rows returns the visible rows for the current flag.
func (v *View) Rows() []Row {
	return v.RowsFor(v.ShowAll())
}

// RowsFor ignores the flag and uses showAll instead.
func (v *View) RowsFor(showAll bool) []Row {
	visible := v.expenses.VisibleSlice(showAll)
	rows := make([]Row, len(visible))
	for i, e := range visible {
		rows[i] = RowOf(e)
	}
	return rows
}

// Toggle flips the flag and returns the new value.
func (v *View) Toggle() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.showAll = !v.showAll
	return v.showAll
}

func (v *View) ShowAll() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.showAll
}

// HasMore reports whether the collapsed table hides any expense.
func (v *View) HasMore() bool {
	return v.expenses.Len() > store.PageSize
}
