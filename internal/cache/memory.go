package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"
)

type memoryCache struct {
	sync.RWMutex
	sync.WaitGroup
	employees  map[string]data.Employees //map[snapshot]employees
	inProgress struct {
		sync.Mutex
		employeesRead map[string]int64 //map[snapshot]unix nano
	}
	config struct {
		inProgressPruneInterval time.Duration
		inProgressTTL           time.Duration
		inProgressEnabled       bool
	}
	ctx       context.Context
	ctxCancel context.CancelFunc
	utilities.Logger
}

func NewMemory(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &memoryCache{Logger: utilities.NewNopLogger()}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *memoryCache) launchPruneInProgress() {
	started := make(chan struct{})
	c.Add(1)
	go func() {
		defer c.Done()

		pruneFx := func() {
			c.inProgress.Lock()
			defer c.inProgress.Unlock()

			for snapshot, t := range c.inProgress.employeesRead {
				if time.Since(time.Unix(0, t)) > c.config.inProgressTTL {
					delete(c.inProgress.employeesRead, snapshot)
				}
			}
		}
		tPrune := time.NewTicker(c.config.inProgressPruneInterval)
		defer tPrune.Stop()
		close(started)
		for {
			select {
			case <-c.ctx.Done():
				return
			case <-tPrune.C:
				pruneFx()
			}
		}
	}()
	<-started
}

func (c *memoryCache) Configure(envs map[string]string) error {
	if s, ok := envs["CACHE_PRUNE_INTERVAL"]; ok {
		inProgressPruneInterval, _ := strconv.Atoi(s)
		c.config.inProgressPruneInterval = time.Second * time.Duration(inProgressPruneInterval)
	}
	if c.config.inProgressPruneInterval <= 0 {
		c.config.inProgressPruneInterval = 10 * time.Second
	}
	if s, ok := envs["CACHE_SET_READ_TTL"]; ok {
		inProgressTTL, _ := strconv.Atoi(s)
		c.config.inProgressTTL = time.Second * time.Duration(inProgressTTL)
	}
	if c.config.inProgressTTL <= 0 {
		c.config.inProgressTTL = 10 * time.Second
	}
	if inProgressEnabled, ok := envs["CACHE_ENABLE_IN_PROGRESS"]; ok {
		c.config.inProgressEnabled, _ = strconv.ParseBool(inProgressEnabled)
	}
	return nil
}

func (c *memoryCache) Open(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[string]data.Employees)
	c.inProgress.employeesRead = make(map[string]int64)
	if c.config.inProgressEnabled {
		c.ctx, c.ctxCancel = context.WithCancel(context.Background())
		c.launchPruneInProgress()
	}
	return nil
}

func (c *memoryCache) Close(ctx context.Context) error {
	if c.config.inProgressEnabled && c.ctxCancel != nil {
		c.ctxCancel()
		c.Wait()
	}
	return nil
}

func (c *memoryCache) Clear(ctx context.Context) error {
	c.Lock()
	defer c.Unlock()

	c.employees = make(map[string]data.Employees)
	c.inProgress.Lock()
	c.inProgress.employeesRead = make(map[string]int64)
	c.inProgress.Unlock()
	return nil
}

// EmployeesRead returns a copy of the cached records. With in-progress
// enabled the first miss for a snapshot returns ErrEmployeesReadSet (the
// caller should load and write it) and later misses return
// ErrEmployeesReadAlreadySet until it's written or the ttl expires.
func (c *memoryCache) EmployeesRead(ctx context.Context, snapshot string) (data.Employees, error) {
	c.RLock()
	defer c.RUnlock()

	employees, ok := c.employees[snapshot]
	if !ok {
		if !c.config.inProgressEnabled {
			return nil, ErrEmployeesNotCached
		}
		c.inProgress.Lock()
		defer c.inProgress.Unlock()
		if _, ok := c.inProgress.employeesRead[snapshot]; ok {
			return nil, ErrEmployeesReadAlreadySet
		}
		c.inProgress.employeesRead[snapshot] = time.Now().UnixNano()
		return nil, ErrEmployeesReadSet
	}
	c.Trace(ctx, "cache hit for snapshot: %s", snapshot)
	return copyEmployees(employees), nil
}

func (c *memoryCache) EmployeesWrite(ctx context.Context, snapshot string, employees data.Employees) error {
	c.Lock()
	defer c.Unlock()

	c.employees[snapshot] = copyEmployees(employees)
	c.inProgress.Lock()
	delete(c.inProgress.employeesRead, snapshot)
	c.inProgress.Unlock()
	c.Trace(ctx, "cached %d employees for snapshot: %s", len(employees), snapshot)
	return nil
}

func (c *memoryCache) EmployeesDelete(ctx context.Context, snapshots ...string) error {
	c.Lock()
	defer c.Unlock()

	c.inProgress.Lock()
	defer c.inProgress.Unlock()
	for _, snapshot := range snapshots {
		delete(c.employees, snapshot)
		delete(c.inProgress.employeesRead, snapshot)
	}
	return nil
}
