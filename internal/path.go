package internal

import (
	"io/fs"
	"strings"
)

// ValidPath reports whether name is a clean, unrooted, slash-separated path.
// Backslashes are rejected so Windows-style paths can't escape a base URL.
func ValidPath(name string) bool {
	return !strings.Contains(name, `\`) && fs.ValidPath(name)
}
