//go:build !linux && !darwin && !freebsd

package endpoint

import (
	"errors"
	"runtime"
)

func diskUsage(string) (DiskStats, error) {
	return DiskStats{}, errors.New("disk statistics are not supported on " + runtime.GOOS)
}
