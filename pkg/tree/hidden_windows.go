//go:build windows

package tree

import (
	"os"
	"syscall"
)

const (
	fileAttributeHidden = 0x2
	fileAttributeSystem = 0x4
)

func isHiddenOrSystem(info os.FileInfo) bool {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok || data == nil {
		return false
	}
	return data.FileAttributes&(fileAttributeHidden|fileAttributeSystem) != 0
}
