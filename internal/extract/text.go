package extract

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the maximum number of characters kept after normalization
const MaxTextLength = 8000

// ErrInvalidText is returned when the input cannot be processed as text
var ErrInvalidText = errors.New("input is not valid UTF-8 text")

// Normalize trims the text, collapses whitespace runs to a single space and
// truncates the result to MaxTextLength characters
func Normalize(text string) (string, error) {
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}

	collapsed := strings.Join(strings.Fields(text), " ")
	return Truncate(collapsed, MaxTextLength), nil
}

// Truncate returns the first n characters of s
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
