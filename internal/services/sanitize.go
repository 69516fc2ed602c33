package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// sanitizeText strips all markup from user supplied catalog text.
func sanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
