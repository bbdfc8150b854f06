package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

const maxSanitizePasses = 8

// Sanitize strips unsafe markup and trims surrounding whitespace. Entities the policy
// escapes in plain text are decoded again, since values are stored and served as JSON;
// decoding repeats until the result is stable so encoded markup cannot survive.
func Sanitize(input string) string {
	out := input
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(sanitizer.Sanitize(out))
		if next == out {
			break
		}
		out = next
	}
	return strings.TrimSpace(out)
}
