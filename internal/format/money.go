package format

import (
	"fmt"
	"strings"
)

// KES renders an amount as Kenyan shillings with thousands separators
// and exactly two decimal places, e.g. "KES 1,234.50".
func KES(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	whole, frac, _ := strings.Cut(s, ".")
	grouped := groupThousands(whole)
	if neg {
		return "KES -" + grouped + "." + frac
	}
	return "KES " + grouped + "." + frac
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
