//go:build linux || darwin || freebsd

package endpoint

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func diskUsage(path string) (DiskStats, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return DiskStats{}, fmt.Errorf("statfs %s: %w", path, err)
	}
	bsize := uint64(st.Bsize)
	return DiskStats{
		Total:  uint64(st.Blocks) * bsize,
		Free:   uint64(st.Bfree) * bsize,
		Usable: uint64(st.Bavail) * bsize,
	}, nil
}
