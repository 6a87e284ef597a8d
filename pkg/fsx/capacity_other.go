//go:build !linux && !darwin && !freebsd && !windows

package fsx

import "errors"

func volumeCapacity(path string) (int64, error) {
	return 0, errors.New("volume capacity is not supported on this platform")
}
