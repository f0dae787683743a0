// internal/app/system/sanitize/sanitize.go

// Package sanitize strips hostile markup from user-supplied text before it
// is stored. Club descriptions and event details allow basic formatting;
// everything else is reduced to plain text.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict = bluemonday.StrictPolicy()
	ugc    = bluemonday.UGCPolicy()
)

// Text strips all HTML and trims whitespace. Use for names, messages, and
// any field rendered as plain text.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// RichText keeps user-generated-content markup (links, lists, emphasis)
// and drops everything else. Use for club descriptions and event details.
func RichText(s string) string {
	return strings.TrimSpace(ugc.Sanitize(s))
}
