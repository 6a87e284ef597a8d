//go:build linux

package fsx

import (
	"golang.org/x/sys/unix"
	"os"
	"time"
)

// fileTimes returns the birth and last access times of a node.
// Birth time comes from statx and falls back to the modification time when the
// filesystem does not record it.
func fileTimes(path string, info os.FileInfo) (created, accessed time.Time) {
	created, accessed = info.ModTime(), info.ModTime()

	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_ATIME|unix.STATX_BTIME, &stx); err != nil {
		return created, accessed
	}

	if stx.Mask&unix.STATX_ATIME != 0 {
		accessed = time.Unix(stx.Atime.Sec, int64(stx.Atime.Nsec))
	}
	if stx.Mask&unix.STATX_BTIME != 0 {
		created = time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	}

	return created, accessed
}
