// Validation utilities for user-entered values. These are pure functions with
// no side effects; required-ness of a field is the caller's concern.
package core

import "strings"

// ValidateAmount reports whether v is a valid monetary amount: ≥ 0 and ≤ max.
// Pass MaxAmount for the standard amount/point/discount cap.
func ValidateAmount(v Yen, max Yen) bool {
	return v >= 0 && v <= max
}

// ValidateQuantity reports whether q is within the allowed quantity range.
func ValidateQuantity(q int) bool {
	return q >= MinQuantity && q <= MaxQuantity
}

// ValidateTextLength reports whether text fits within maxLength runes.
// The empty string is always valid at this layer.
func ValidateTextLength(text string, maxLength int) bool {
	return len([]rune(text)) <= maxLength
}

// SanitizeNumericInput normalizes raw keystrokes into an ASCII digit string.
//
// Full-width digits (U+FF10..U+FF19) are mapped to ASCII by subtracting
// 0xFEE0 from the code point; every other non-digit rune is stripped. There
// is no error case: the result is a possibly empty digits-only string.
//
// Example:
//
//	SanitizeNumericInput("１２３a４") == "1234"
func SanitizeNumericInput(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '０' && r <= '９' {
			r -= 0xFEE0
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
