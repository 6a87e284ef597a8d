//go:build windows

package fsx

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns the creation and last access times of a node from the file attribute data.
func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	data, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return info.ModTime(), info.ModTime()
	}

	return time.Unix(0, data.CreationTime.Nanoseconds()), time.Unix(0, data.LastAccessTime.Nanoseconds())
}
