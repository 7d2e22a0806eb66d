// Package display implements value formatting and attainment classification
// for dashboard metrics.
//
// All functions are pure: no I/O, no shared state, safe to call from any
// number of goroutines. Attainment percentages are accepted as given and are
// never re-derived here; callers are responsible for validating numeric input.
package display

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind is the display-formatting category of a metric value.
type Kind string

const (
	// Currency renders as US dollars with thousands grouping and no decimals.
	Currency Kind = "currency"

	// Count renders with thousands grouping, no decimals and no symbol.
	Count Kind = "count"

	// Percentage renders with one decimal place and a trailing percent sign.
	Percentage Kind = "percentage"
)

// KindOf maps a wire metric type string to a Kind.
//
// Unrecognized values silently fall back to Count; this is not an error.
func KindOf(s string) Kind {
	switch Kind(s) {
	case Currency, Count, Percentage:
		return Kind(s)
	default:
		return Count
	}
}

// printer groups digits the en-US way: 1234567 -> "1,234,567".
var printer = message.NewPrinter(language.AmericanEnglish)

// Format renders a metric value for display according to its kind.
//
//	Format(850000, Currency)  = "$850,000"
//	Format(85.0, Percentage)  = "85.0%"
//	Format(1234567, Count)    = "1,234,567"
//
// Negative and zero values format under the same rules, so a currency of
// -500 renders "-$500". Non-numeric input (NaN) is a caller error and
// produces an unspecified string rather than a panic.
func Format(value float64, kind Kind) string {
	switch KindOf(string(kind)) {
	case Currency:
		n := int64(math.Round(value))
		if n < 0 {
			return "-$" + printer.Sprintf("%d", -n)
		}
		return "$" + printer.Sprintf("%d", n)
	case Percentage:
		return fmt.Sprintf("%.1f%%", value)
	default:
		return printer.Sprintf("%d", int64(math.Round(value)))
	}
}
