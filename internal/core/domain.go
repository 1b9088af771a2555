package core

import (
	"errors"
	"math"
	"strings"
	"time"
)

const (
	// DefaultQuantity is the quantity of a fresh draft row.
	DefaultQuantity = 1
)

type (
	// Date is a calendar date. The time of day carries no meaning.
	Date struct {
		time.Time
	}

	Category struct {
		Name          string   `json:"name"`
		IsDefault     bool     `json:"isDefault"`
		Subcategories []string `json:"subcategories"`
	}

	Expense struct {
		ID          string `json:"id"`
		Date        Date   `json:"date"`
		Category    string `json:"category"`
		Subcategory string `json:"subcategory"`
		Description string `json:"description"`
		Quantity    int    `json:"quantity"`
		UnitPrice   int64  `json:"unitPrice"`
		Recipient   string `json:"recipient"`
		TotalAmount int64  `json:"totalAmount"` // stored at save time, never recomputed
	}

	// Snapshot is the whole persisted state, written wholesale on every mutation.
	Snapshot struct {
		Categories []Category `json:"categories"`
		Expenses   []Expense  `json:"expenses"`
		ScriptURL  *string    `json:"scriptUrl"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrEmptyID         = errors.New("empty expense id")
	ErrTotalOverflow   = errors.New("total amount out of range")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping t's calendar date.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the current calendar date in local time.
func Today() Date {
	return DateOf(time.Now())
}

// Compare orders two dates by calendar day only: -1, 0 or +1.
func (d Date) Compare(other Date) int {
	ay, am, ad := d.Date()
	by, bm, bd := other.Date()
	switch {
	case ay != by:
		return cmpInt(ay, by)
	case am != bm:
		return cmpInt(int(am), int(bm))
	default:
		return cmpInt(ad, bd)
	}
}

func (d Date) String() string {
	return d.Format(time.DateOnly)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ParseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Total is quantity × unit price.
func Total(quantity int, unitPrice int64) int64 {
	return int64(quantity) * unitPrice
}

// CheckedTotal is Total for a quantity of at least 1 and a non-negative
// unit price, failing with ErrTotalOverflow when the product does not fit
// in an int64.
func CheckedTotal(quantity int, unitPrice int64) (int64, error) {
	if quantity > 0 && unitPrice > math.MaxInt64/int64(quantity) {
		return 0, ErrTotalOverflow
	}
	return Total(quantity, unitPrice), nil
}

// HasSubcategory reports whether sub is listed on the category (exact match).
func (c Category) HasSubcategory(sub string) bool {
	for _, s := range c.Subcategories {
		if s == sub {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers never share the subcategory slice.
func (c Category) Clone() Category {
	c.Subcategories = append([]string{}, c.Subcategories...)
	return c
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if e.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if e.UnitPrice < 0 || e.TotalAmount < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Clone deep-copies the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Categories: make([]Category, len(s.Categories)),
		Expenses:   append([]Expense{}, s.Expenses...),
	}
	for i, c := range s.Categories {
		out.Categories[i] = c.Clone()
	}
	if s.ScriptURL != nil {
		u := *s.ScriptURL
		out.ScriptURL = &u
	}
	return out
}
