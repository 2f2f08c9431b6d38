package agent

import "fmt"

// FormatCents renders integer cents as a dollar amount with two decimals.
func FormatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}

// TotalsConsistent reports whether total_cents equals subtotal plus tax and
// shipping, treating absent components as zero. The producer does not
// guarantee this, so a mismatch is a display warning rather than an error.
func TotalsConsistent(t CartTotals) bool {
	sum := t.SubtotalCents
	if t.TaxCents != nil {
		sum += *t.TaxCents
	}
	if t.ShippingCents != nil {
		sum += *t.ShippingCents
	}
	return sum == t.TotalCents
}
