package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDateCompareIgnoresTimeOfDay(t *testing.T) {
	morning := Date{Time: time.Date(2025, 3, 4, 8, 0, 0, 0, time.UTC)}
	evening := Date{Time: time.Date(2025, 3, 4, 22, 30, 0, 0, time.UTC)}
	if got := morning.Compare(evening); got != 0 {
		t.Fatalf("same-day compare = %d, want 0", got)
	}
	cases := []struct {
		a, b Date
		want int
	}{
		{NewDate(2025, 1, 1), NewDate(2024, 12, 31), 1},
		{NewDate(2025, 1, 1), NewDate(2025, 2, 1), -1},
		{NewDate(2025, 2, 2), NewDate(2025, 2, 1), 1},
	}
	for i, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("case %d: Compare = %d, want %d", i, got, tc.want)
		}
	}
}

func TestDateOfDropsTime(t *testing.T) {
	d := DateOf(time.Date(2025, 6, 7, 13, 14, 15, 0, time.UTC))
	if d.Hour() != 0 || d.Minute() != 0 || d.String() != "2025-06-07" {
		t.Fatalf("unexpected date %v", d.Time)
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-06-07", "2025-06-07T18:00:00Z", " 2025-06-07 "} {
		d, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", in, err)
		}
		if d.String() != "2025-06-07" {
			t.Fatalf("ParseDate(%q) = %s", in, d)
		}
	}
	if _, err := ParseDate("07/06/2025"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestExpenseJSONFieldNames(t *testing.T) {
	e := Expense{
		ID: "x", Date: NewDate(2025, 1, 2), Category: "Food", Subcategory: "Groceries",
		Description: "weekly", Quantity: 3, UnitPrice: 50, Recipient: "Market", TotalAmount: 150,
	}
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"id"`, `"date":"2025-01-02T00:00:00Z"`, `"category"`, `"subcategory"`,
		`"description"`, `"quantity"`, `"unitPrice"`, `"recipient"`, `"totalAmount":150`} {
		if !strings.Contains(string(b), field) {
			t.Errorf("missing %s in %s", field, b)
		}
	}
}

func TestExpenseValidate(t *testing.T) {
	ok := Expense{ID: "a", Quantity: 1}
	if err := ok.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Expense{Quantity: 1}).Validate(); err != ErrEmptyID {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if err := (Expense{ID: "a"}).Validate(); err != ErrInvalidQuantity {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if err := (Expense{ID: "a", Quantity: 1, UnitPrice: -1}).Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	url := "https://example.test"
	s := Snapshot{Categories: SeedCategories(), ScriptURL: &url}
	c := s.Clone()
	c.Categories[0].Subcategories[0] = "changed"
	*c.ScriptURL = "other"
	if s.Categories[0].Subcategories[0] == "changed" || *s.ScriptURL != url {
		t.Fatal("clone shares memory with original")
	}
}

func TestSeededSubcategories(t *testing.T) {
	if !IsSeededSubcategory("Food", "Groceries") {
		t.Fatal("Groceries should be seeded under Food")
	}
	if IsSeededSubcategory("Food", "Snacks") {
		t.Fatal("Snacks is not part of the seed")
	}
	if IsSeededSubcategory("Unknown", "Groceries") {
		t.Fatal("unknown category cannot have seeded subcategories")
	}
	seed := SeedCategories()
	seed[0].Subcategories[0] = "mutated"
	if DefaultCategories[0].Subcategories[0] == "mutated" {
		t.Fatal("SeedCategories must copy")
	}
}

func TestNewExpenseIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NewExpenseID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestCheckedTotal(t *testing.T) {
	cases := []struct {
		quantity int
		price    int64
		want     int64
		overflow bool
	}{
		{3, 50, 150, false},
		{1, math.MaxInt64, math.MaxInt64, false},
		{2, math.MaxInt64 / 2, math.MaxInt64 - 1, false},
		{2, math.MaxInt64/2 + 1, 0, true},
		{3, 4_000_000_000_000_000_000, 0, true},
		{7, 0, 0, false},
	}
	for _, tc := range cases {
		got, err := CheckedTotal(tc.quantity, tc.price)
		if tc.overflow {
			if !errors.Is(err, ErrTotalOverflow) {
				t.Errorf("CheckedTotal(%d, %d) error = %v, want ErrTotalOverflow", tc.quantity, tc.price, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("CheckedTotal(%d, %d) = %d, %v; want %d", tc.quantity, tc.price, got, err, tc.want)
		}
	}
}
