//go:build darwin

package fsx

import (
	"os"
	"syscall"
	"time"
)

// fileTimes returns the birth and last access times of a node from the stat structure.
func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return info.ModTime(), info.ModTime()
	}

	return time.Unix(stat.Birthtimespec.Unix()), time.Unix(stat.Atimespec.Unix())
}
