package logic

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/cache"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/reporter"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/cenkalti/backoff/v5"
)

type Logic struct {
	sync.RWMutex
	config struct {
		storePath          string
		cacheEnabled       bool
		cacheRetryInterval time.Duration
		cacheMaxRetries    uint
		cacheExpBackoff    bool
	}
	lastSnapshot string
	store        store.Store
	cache        cache.Cache
	utilities.Logger
}

func NewLogic(parameters ...any) *Logic {
	l := &Logic{Logger: utilities.NewNopLogger()}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case store.Store:
			l.store = v
		case cache.Cache:
			l.cache = v
		case utilities.Logger:
			l.Logger = v
		}
	}
	return l
}

func (l *Logic) Configure(envs map[string]string) error {
	l.Lock()
	defer l.Unlock()

	l.config.cacheRetryInterval = time.Second
	l.config.cacheMaxRetries = 3
	if storePath, ok := envs["STORE_PATH"]; ok {
		l.config.storePath = storePath
	}
	if cacheEnabled, ok := envs["LOGIC_CACHE_ENABLED"]; ok {
		l.config.cacheEnabled, _ = strconv.ParseBool(cacheEnabled)
	}
	if s, ok := envs["CACHE_RETRY_INTERVAL"]; ok {
		if i, _ := strconv.Atoi(s); i > 0 {
			l.config.cacheRetryInterval = time.Duration(i) * time.Second
		}
	}
	if s, ok := envs["CACHE_MAX_RETRIES"]; ok {
		if i, _ := strconv.Atoi(s); i > 0 {
			l.config.cacheMaxRetries = uint(i)
		}
	}
	if s, ok := envs["CACHE_RETRY_EXP_BACKOFF"]; ok {
		l.config.cacheExpBackoff, _ = strconv.ParseBool(s)
	}
	return nil
}

func (l *Logic) Open(ctx context.Context) error {
	l.Lock()
	defer l.Unlock()

	switch {
	case l.store == nil:
		return data.Errorf(data.ErrUsage, "no store provided")
	case l.config.storePath == "":
		return data.Errorf(data.ErrUsage, "STORE_PATH is required")
	case l.config.cacheEnabled && l.cache == nil:
		return data.Errorf(data.ErrUsage, "cache enabled, but no cache provided")
	}
	if l.config.cacheEnabled {
		l.Info(ctx, "cache enabled for %s", l.config.storePath)
	}
	return nil
}

func (l *Logic) Close(ctx context.Context) error {
	return nil
}

func (l *Logic) cacheEnabled() bool {
	l.RLock()
	defer l.RUnlock()
	return l.config.cacheEnabled
}

// cacheRead waits for another reader that's already loading the same
// snapshot; any other miss is returned immediately.
func (l *Logic) cacheRead(ctx context.Context, snapshot string) (data.Employees, error) {
	var b backoff.BackOff = backoff.NewConstantBackOff(l.config.cacheRetryInterval)
	if l.config.cacheExpBackoff {
		exponential := backoff.NewExponentialBackOff()
		exponential.InitialInterval = l.config.cacheRetryInterval
		b = exponential
	}
	return backoff.Retry(ctx, func() (data.Employees, error) {
		employees, err := l.cache.EmployeesRead(ctx, snapshot)
		switch {
		case err == nil:
			return employees, nil
		case errors.Is(err, cache.ErrEmployeesReadAlreadySet):
			return nil, err
		default:
			return nil, backoff.Permanent(err)
		}
	}, backoff.WithBackOff(b), backoff.WithMaxTries(l.config.cacheMaxRetries))
}

func (l *Logic) employees(ctx context.Context) (data.Employees, error) {
	storePath := l.config.storePath
	if !l.cacheEnabled() {
		return l.store.ReadAll(ctx, storePath)
	}
	snapshot, err := l.store.Snapshot(ctx, storePath)
	if err != nil {
		return nil, err
	}
	employees, err := l.cacheRead(ctx, snapshot)
	if err == nil {
		return employees, nil
	}
	l.Debug(ctx, "error while reading snapshot (%s) from cache: %s", snapshot, err)
	employees, err = l.store.ReadAll(ctx, storePath)
	if err != nil {
		return nil, err
	}
	if err := l.cache.EmployeesWrite(ctx, snapshot, employees); err != nil {
		l.Error(ctx, "error while writing snapshot (%s) to cache: %s", snapshot, err)
	}
	l.Lock()
	lastSnapshot := l.lastSnapshot
	l.lastSnapshot = snapshot
	l.Unlock()
	if lastSnapshot != "" && lastSnapshot != snapshot {
		if err := l.cache.EmployeesDelete(ctx, lastSnapshot); err != nil {
			l.Error(ctx, "error while evicting snapshot (%s): %s", lastSnapshot, err)
		}
	}
	return employees, nil
}

// EmployeesRead returns every valid record in file order.
func (l *Logic) EmployeesRead(ctx context.Context) (data.Employees, error) {
	return l.employees(ctx)
}

// EmployeeRead returns the first record in file order with the given id.
func (l *Logic) EmployeeRead(ctx context.Context, empNo int32) (*data.Employee, error) {
	employees, err := l.employees(ctx)
	if err != nil {
		return nil, err
	}
	for _, employee := range employees {
		if employee.EmpNo == empNo {
			return &employee, nil
		}
	}
	return nil, data.Errorf(data.ErrNotFound, "employee not found: %d", empNo)
}

func (l *Logic) ReportRead(ctx context.Context, rate float64) (*data.Report, error) {
	if !(rate > 0) {
		return nil, data.Errorf(data.ErrUsage, "invalid hourly rate - hourly rate must be positive")
	}
	employees, err := l.employees(ctx)
	if err != nil {
		return nil, err
	}
	return reporter.Build(l.config.storePath, rate, employees)
}

var _ interface {
	internal.Configurer
	internal.Opener
} = (*Logic)(nil)
