// Package textnorm cleans user supplied text before it is stored.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Clean trims surrounding whitespace and converts s to Unicode NFC so that
// visually identical names compare equal in SQL.
func Clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
