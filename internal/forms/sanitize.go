package forms

import (
	"html"
	"strings"
)

// escaper replaces the characters that are significant in HTML markup.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Sanitize trims surrounding whitespace and escapes the remainder. It is
// applied to every free-text field before validation and storage.
func Sanitize(s string) string {
	return Escape(strings.TrimSpace(s))
}

// Unescape reverses Escape for display. html/template escapes the result
// again, so stored values render exactly as they were typed.
func Unescape(s string) string {
	return html.UnescapeString(s)
}
