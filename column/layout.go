// layout.go - Compact record layout of schema columns
package column

import (
	"github.com/wilhasse/innopage/record"
	"github.com/wilhasse/innopage/schema"
)

// Layout describes cols as the compact record header sees them.
func Layout(cols []*schema.Column) []record.Column {
	out := make([]record.Column, len(cols))
	for i, col := range cols {
		rc := record.Column{Nullable: col.Nullable}
		if col.IsVariableLength() {
			rc.Big = col.IsBig()
		} else {
			rc.Fixed = col.StorageSize()
		}
		out[i] = rc
	}
	return out
}
