//go:build linux || darwin || freebsd

package fsx

import (
	"fmt"
	"golang.org/x/sys/unix"
)

// volumeCapacity returns the total size of the filesystem holding path.
func volumeCapacity(path string) (int64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("failed to stat filesystem of %s: %w", path, err)
	}

	return int64(st.Blocks) * int64(st.Bsize), nil
}
