package mailbox

import (
	"html"
	"regexp"
	"strings"
)

// maxBodyChars caps the normalized body length.
const maxBodyChars = 5000

var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

// NormalizeBody converts raw (possibly HTML) message content into clean
// plain text. It unescapes HTML entities (handles double-encoded bodies;
// no-op on plain text), strips all tags, collapses whitespace runs to a
// single space, trims, and truncates to maxBodyChars characters.
func NormalizeBody(raw string) string {
	unescaped := html.UnescapeString(raw)
	plain := htmlTagRegex.ReplaceAllString(unescaped, " ")
	collapsed := strings.Join(strings.Fields(plain), " ")
	return truncate(collapsed, maxBodyChars)
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
