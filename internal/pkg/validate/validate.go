package validate

import (
	"strings"
	"unicode/utf8"
)

func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// LengthBetween bounds the value in characters, not bytes, so multibyte
// input is measured the way users count it.
func LengthBetween(value string, min, max int) bool {
	n := utf8.RuneCountInString(value)
	return n >= min && n <= max
}

func IntBetween(value, min, max int) bool {
	return value >= min && value <= max
}
