package store

import "github.com/antonio-alexander/go-employee-pipeline/internal/data"

// EstimateSize is the number of bytes a store with count records occupies.
func EstimateSize(count int) uint64 {
	if count <= 0 {
		return 0
	}
	return uint64(count) * data.BlockSize
}
