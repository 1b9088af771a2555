// Package core provides the expense domain model and currency helpers.
//
// Amounts are whole currency units: the display format has no fractional
// digits and the parser rounds anything finer to the nearest unit.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCurrency renders a grouped decimal with no fractional digits.
//
// Examples:
//
//	FormatCurrency(0)       -> "0"
//	FormatCurrency(1234567) -> "1,234,567"
//	FormatCurrency(-1500)   -> "-1,500"
func FormatCurrency(amount int64) string {
	return humanize.Comma(amount)
}

// ParseCurrency reads a display string back into whole units.
//
// Every rune other than digits, '.' and '-' is dropped first, so grouping
// separators and currency symbols are ignored. An empty remainder parses as 0.
// Fractions round half away from zero on the first fractional digit; the
// whole part is parsed as an integer so no precision is lost near the int64
// limits. Values outside int64 return ErrInvalidAmount.
func ParseCurrency(s string) (int64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if cleaned == "" {
		return 0, nil
	}

	whole, frac, hasFrac := strings.Cut(cleaned, ".")
	if strings.ContainsAny(frac, ".-") || (hasFrac && frac == "" && strings.TrimPrefix(whole, "-") == "") {
		return 0, ErrInvalidAmount
	}

	var n int64
	if whole != "" && whole != "-" {
		v, err := strconv.ParseInt(whole, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		n = v
	} else if !hasFrac {
		return 0, ErrInvalidAmount
	}

	if frac != "" && frac[0] >= '5' {
		if strings.HasPrefix(whole, "-") {
			if n == math.MinInt64 {
				return 0, ErrInvalidAmount
			}
			n--
		} else {
			if n == math.MaxInt64 {
				return 0, ErrInvalidAmount
			}
			n++
		}
	}
	return n, nil
}
