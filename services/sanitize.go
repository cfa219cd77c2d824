package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// SanitizeText strips all markup from visitor-supplied free text
// (form messages, names). Submissions are displayed verbatim in the
// admin dashboard, so nothing executable may survive.
func SanitizeText(input string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(input))
}

// SanitizeHTML keeps safe user-generated markup for editable site content
// stored with type "html".
func SanitizeHTML(input string) string {
	return ugcPolicy.Sanitize(input)
}
