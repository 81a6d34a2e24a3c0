// Package sanitize strips unsafe markup from bus-originated text before it
// is inserted into a served page: skills are third-party code and their
// utterance/data strings are untrusted input from the gateway's
// perspective.
package sanitize

import "github.com/microcosm-cc/bluemonday"

var policy = bluemonday.UGCPolicy()

// Text sanitizes a plain string destined for a text node, stripping any
// markup a skill might have smuggled in.
func Text(s string) string {
	return policy.Sanitize(s)
}

// HTML sanitizes a string destined for an innerHTML-style insertion (e.g.
// a markdown-rendered skill message), allowing the user-generated-content
// tag set but stripping scripts, event handlers, and disallowed elements.
func HTML(s string) string {
	return policy.Sanitize(s)
}
