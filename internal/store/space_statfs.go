//go:build linux || darwin

package store

import (
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"

	"golang.org/x/sys/unix"
)

// FreeSpace returns the bytes available to an unprivileged user on the
// filesystem holding dir.
func FreeSpace(dir string) (uint64, error) {
	var stat unix.Statfs_t

	if err := unix.Statfs(dir, &stat); err != nil {
		return 0, data.Wrapf(data.ErrIO, err, "cannot check disk space: %s", dir)
	}
	return uint64(stat.Bavail) * uint64(stat.Bsize), nil
}
