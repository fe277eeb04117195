package pages

import "html"

// storedText turns a persisted, pre-escaped string back into plain text so
// the template escapes it exactly once
func storedText(s string) string {
	return html.UnescapeString(s)
}
