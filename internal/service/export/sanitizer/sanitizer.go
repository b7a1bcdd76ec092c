package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer cleans the rich text authors type into text modules before
// it is embedded in an export.
//
// Thread-safe for concurrent use.
type HTMLSanitizer struct {
	policy *bluemonday.Policy
}

// NewHTMLSanitizer creates a sanitizer based on the UGC policy: common
// formatting, lists, tables and links survive; scripts, event handlers and
// javascript: URLs are stripped. Inline data images are allowed so pasted
// screenshots survive in offline exports.
func NewHTMLSanitizer() *HTMLSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataURIImages()
	policy.AllowAttrs("class").Globally()

	return &HTMLSanitizer{policy: policy}
}

// Sanitize returns html with unsafe elements and attributes removed.
func (s *HTMLSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
