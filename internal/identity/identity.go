package identity

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize turns a free-text person name into a canonical identifier:
// lowercase, every run of non-alphanumeric characters collapsed to a single
// underscore, edges trimmed. "Jane Q. Doe" and "jane-q-doe" both normalize
// to "jane_q_doe".
func Normalize(text string) string {
	id := nonAlnum.ReplaceAllString(strings.ToLower(text), "_")
	return strings.Trim(id, "_")
}
