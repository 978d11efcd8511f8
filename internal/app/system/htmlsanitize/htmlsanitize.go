// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-authored
// content (task descriptions, comments) before it is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows common formatting tags (p, strong, em, lists, links)
// and strips scripts, event handlers, and javascript: URLs.
var policy = bluemonday.UGCPolicy()

// Sanitize returns body with unsafe HTML removed. Plain text passes
// through unchanged.
func Sanitize(body string) string {
	return policy.Sanitize(body)
}
