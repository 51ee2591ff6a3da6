package format

import "fmt"

// PageIdent names the page in diagnostics, as " (space id S, page N)".
// It returns "" when the FIL header cannot be read.
func PageIdent(p []byte) string {
	space, err1 := Be32(p, FilPageSpaceID)
	no, err2 := Be32(p, FilPageOffset)
	if err1 != nil || err2 != nil {
		return ""
	}
	return fmt.Sprintf(" (space id %d, page %d)", space, no)
}
