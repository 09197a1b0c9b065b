// Package rupiah formats amounts as Indonesian Rupiah, matching the id-ID
// locale convention: "Rp" prefix, dot thousand separators, no fraction.
package rupiah

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Format renders d as e.g. "Rp 249.000". Fractions are rounded away since
// Rupiah prices carry no cents.
func Format(d decimal.Decimal) string {
	n := d.Round(0).IntPart()

	neg := n < 0
	if neg {
		n = -n
	}

	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3 + 5)

	if neg {
		b.WriteByte('-')
	}
	b.WriteString("Rp ")

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
		if len(digits) > lead {
			b.WriteByte('.')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		b.WriteString(digits[i : i+3])
		if i+3 < len(digits) {
			b.WriteByte('.')
		}
	}
	return b.String()
}
