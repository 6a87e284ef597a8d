//go:build !linux && !darwin && !windows

package fsx

import (
	"os"
	"time"
)

// fileTimes falls back to the modification time on platforms without portable birth times.
func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	return info.ModTime(), info.ModTime()
}
