package cache

import (
	"context"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/antonio-alexander/go-stash"
)

type stashCache struct {
	logger utilities.Logger
	stash  interface {
		stash.Configurer
		stash.Parameterizer
		stash.Initializer
		stash.Shutdowner
	}
	stash.Stasher
}

// NewStash wraps a go-stash backend (memory or redis); the backend itself
// must be one of the parameters.
func NewStash(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &stashCache{logger: utilities.NewNopLogger()}
	for _, p := range parameters {
		switch p := p.(type) {
		case utilities.Logger:
			c.logger = p
		case interface {
			stash.Configurer
			stash.Parameterizer
			stash.Initializer
			stash.Shutdowner
			stash.Stasher
		}:
			c.stash = p
			c.Stasher = p
		}
	}
	if c.stash != nil {
		c.stash.SetParameters(parameters...)
	}
	return c
}

func (c *stashCache) Error(ctx context.Context, format string, v ...any) {
	c.logger.Error(ctx, format, v...)
}

func (c *stashCache) Trace(ctx context.Context, format string, v ...any) {
	c.logger.Trace(ctx, format, v...)
}

func (c *stashCache) Configure(envs map[string]string) error {
	if c.stash != nil {
		if err := c.stash.Configure(envs); err != nil {
			return err
		}
	}
	return nil
}

func (c *stashCache) Open(ctx context.Context) error {
	if c.stash == nil {
		return data.Errorf(data.ErrUsage, "no stash provided")
	}
	return c.stash.Initialize()
}

func (c *stashCache) Close(ctx context.Context) error {
	if c.stash != nil {
		return c.stash.Shutdown()
	}
	return nil
}

func (c *stashCache) Clear(ctx context.Context) error {
	return c.Stasher.Clear()
}

func (c *stashCache) EmployeesRead(ctx context.Context, snapshot string) (data.Employees, error) {
	employees := data.Employees{}
	if err := c.Stasher.Read(snapshot, &employees); err != nil {
		c.Trace(ctx, "cache miss for snapshot (%s): %s", snapshot, err)
		return nil, ErrEmployeesNotCached
	}
	c.Trace(ctx, "cache hit for snapshot: %s", snapshot)
	return employees, nil
}

func (c *stashCache) EmployeesWrite(ctx context.Context, snapshot string, employees data.Employees) error {
	if _, err := c.Stasher.Write(snapshot, &employees); err != nil {
		c.Error(ctx, "error while writing snapshot (%s): %s", snapshot, err)
		return err
	}
	c.Trace(ctx, "cached %d employees for snapshot: %s", len(employees), snapshot)
	return nil
}

func (c *stashCache) EmployeesDelete(ctx context.Context, snapshots ...string) error {
	for _, snapshot := range snapshots {
		if err := c.Stasher.Delete(snapshot); err != nil {
			//KIM: a snapshot that was never cached can't be deleted, that's
			// not worth failing over
			c.Trace(ctx, "error while deleting snapshot (%s): %s", snapshot, err)
			continue
		}
		c.Trace(ctx, "evicted cached snapshot: %s", snapshot)
	}
	return nil
}
