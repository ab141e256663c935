package command

import (
	"strings"
	"unicode"
)

// Parse splits message into its first whitespace-delimited token and the text
// after it. The remainder is returned verbatim apart from the whitespace that
// separates it from the token; ok is false when there is no remainder.
func Parse(message string) (token, remainder string, ok bool) {
	s := strings.TrimLeftFunc(message, unicode.IsSpace)

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, "", false
	}

	token = s[:i]
	remainder = strings.TrimLeftFunc(s[i:], unicode.IsSpace)
	if remainder == "" {
		return token, "", false
	}
	return token, remainder, true
}
