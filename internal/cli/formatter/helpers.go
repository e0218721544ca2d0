package formatter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Money formats an amount with its currency code, e.g. "1234.50 USD".
func Money(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return amount.StringFixed(2)
	}
	return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
}

// MoneyStyled colors an amount by sign: red when it exceeds the budget,
// green otherwise. A zero budget skips the comparison.
func MoneyStyled(actual, budget decimal.Decimal, currency string) string {
	text := Money(actual, currency)
	if !budget.IsZero() && actual.GreaterThan(budget) {
		return StyleRed.Render(text)
	}
	return StyleGreen.Render(text)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Checkbox renders a checklist completion marker.
func Checkbox(done bool) string {
	if done {
		return StyleGreen.Render("[x]")
	}
	return StyleDim.Render("[ ]")
}
