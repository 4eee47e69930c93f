package core

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user supplied free text and trims it.
// bluemonday escapes what it keeps, so entities are turned back into plain text.
func SanitizeText(s string) string {
	return CleanString(html.UnescapeString(textPolicy.Sanitize(s)))
}
