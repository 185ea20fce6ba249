//go:build !windows

package tree

import "os"

// Unix has no hidden or system attribute bits; the dot prefix covers hidden files.
func isHiddenOrSystem(os.FileInfo) bool {
	return false
}
