package validator

import "strings"

// escaper replaces the characters that are significant in HTML markup and
// attribute values.
var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces markup-significant characters with HTML entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Sanitize trims surrounding whitespace and escapes the result.
func Sanitize(s string) string {
	return Escape(strings.TrimSpace(s))
}

// SanitizeAll sanitizes every element of values. The result is never nil.
func SanitizeAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, s := range values {
		out = append(out, Sanitize(s))
	}
	return out
}
