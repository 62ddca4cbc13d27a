//go:build !linux && !darwin

package store

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

func FreeSpace(dir string) (uint64, error) {
	return 0, data.Errorf(data.ErrIO, "cannot check disk space on this platform: %s", dir)
}
