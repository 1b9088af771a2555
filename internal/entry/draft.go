package entry

import (
	"fmt"
	"strconv"
	"strings"

	"expensepad/internal/core"
)

// Draft is one uncommitted row of the entry form.
type Draft struct {
	Date        core.Date `json:"date"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Description string    `json:"description"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unitPrice"`
	Recipient   string    `json:"recipient"`
}

// NewDraft returns a default row dated today.
func NewDraft(today core.Date) Draft {
	return Draft{Date: today, Quantity: core.DefaultQuantity}
}

func (d Draft) Total() int64 {
	return core.Total(d.Quantity, d.UnitPrice)
}

// Expense finalizes the draft under the given id.
func (d Draft) Expense(id string) core.Expense {
	return core.Expense{
		ID:          id,
		Date:        d.Date,
		Category:    d.Category,
		Subcategory: d.Subcategory,
		Description: d.Description,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		Recipient:   d.Recipient,
		TotalAmount: d.Total(),
	}
}

// Edit changes one field of a draft. The variants below are the only
// implementations.
type Edit interface {
	apply(d *Draft)
}

type (
	SetDate        struct{ Date core.Date }
	SetCategory    struct{ Category string }
	SetSubcategory struct{ Subcategory string }
	SetDescription struct{ Description string }
	SetQuantity    struct{ Quantity int }
	SetUnitPrice   struct{ UnitPrice int64 }
	SetRecipient   struct{ Recipient string }
)

func (e SetDate) apply(d *Draft) { d.Date = e.Date }

// A new category invalidates whatever subcategory was picked before.
func (e SetCategory) apply(d *Draft) {
	d.Category = e.Category
	d.Subcategory = ""
}

func (e SetSubcategory) apply(d *Draft) { d.Subcategory = e.Subcategory }
func (e SetDescription) apply(d *Draft) { d.Description = e.Description }
func (e SetRecipient) apply(d *Draft)   { d.Recipient = e.Recipient }

func (e SetQuantity) apply(d *Draft) {
	d.Quantity = max(e.Quantity, 1)
}

func (e SetUnitPrice) apply(d *Draft) {
	d.UnitPrice = max(e.UnitPrice, 0)
}

// ParseEdit turns a field name and its textual value into an Edit.
// Quantity and unit price accept formatted input such as "1,250".
func ParseEdit(field, value string) (Edit, error) {
	switch field {
	case "date":
		date, err := core.ParseDate(value)
		if err != nil {
			return nil, &core.ValidationError{Field: field, Value: value, Reason: "must be a date (YYYY-MM-DD)"}
		}
		return SetDate{Date: date}, nil
	case "category":
		return SetCategory{Category: value}, nil
	case "subcategory":
		return SetSubcategory{Subcategory: value}, nil
	case "description":
		return SetDescription{Description: value}, nil
	case "recipient":
		return SetRecipient{Recipient: value}, nil
	case "quantity":
		value = strings.TrimSpace(value)
		if value == "" {
			return SetQuantity{Quantity: core.DefaultQuantity}, nil
		}
		q, err := strconv.Atoi(value)
		if err != nil {
			n, perr := core.ParseCurrency(value)
			if perr != nil {
				return nil, &core.ValidationError{Field: field, Value: value, Reason: "must be a whole number"}
			}
			q = int(n)
		}
		return SetQuantity{Quantity: q}, nil
	case "unitPrice":
		p, err := core.ParseCurrency(value)
		if err != nil {
			return nil, &core.ValidationError{Field: field, Value: value, Reason: "must be an amount"}
		}
		return SetUnitPrice{UnitPrice: p}, nil
	default:
		return nil, &core.ValidationError{Field: "field", Value: field, Reason: fmt.Sprintf("unknown field %q", field)}
	}
}
