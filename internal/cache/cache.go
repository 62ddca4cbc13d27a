package cache

import (
	"context"
	"errors"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

var (
	ErrEmployeesNotCached      = errors.New("employees not cached")
	ErrEmployeesReadSet        = errors.New("employees not cached, read set")
	ErrEmployeesReadAlreadySet = errors.New("employees not cached, read already set")
)

// Cache holds the valid records of a binary file keyed by a snapshot of that
// file (see store.Store.Snapshot); once the file changes its snapshot
// changes too, so stale entries are never read back.
type Cache interface {
	EmployeesRead(ctx context.Context, snapshot string) (data.Employees, error)
	EmployeesWrite(ctx context.Context, snapshot string, employees data.Employees) error
	EmployeesDelete(ctx context.Context, snapshots ...string) error
}

func copyEmployees(e data.Employees) data.Employees {
	employees := make(data.Employees, len(e))
	copy(employees, e)
	return employees
}
