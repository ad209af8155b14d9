// Package format provides display formatting helpers for sensitive
// identifiers and money amounts.
package format

import "strings"

// Mask hides the interior of a sensitive identifier, keeping the first
// and last four characters visible. Values of eight characters or fewer
// are fully starred since revealing both ends would leave nothing hidden.
func Mask(s string) string {
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-8) + s[len(s)-4:]
}

// MaskShort keeps only the first and last two characters visible.
// Used for paybill and account numbers, which are often too short for
// the four-character window of Mask.
func MaskShort(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
