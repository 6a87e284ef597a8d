//go:build windows

package fsx

import (
	"fmt"
	"golang.org/x/sys/windows"
)

// volumeCapacity returns the total size of the volume holding path.
func volumeCapacity(path string) (int64, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}

	var free, total, totalFree uint64
	if err := windows.GetDiskFreeSpaceEx(p, &free, &total, &totalFree); err != nil {
		return 0, fmt.Errorf("failed to query volume of %s: %w", path, err)
	}

	return int64(total), nil
}
