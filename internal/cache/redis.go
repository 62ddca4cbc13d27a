package cache

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/redis/go-redis/v9"
)

const (
	hashKeyEmployees       string = "employees"
	hashKeyInProgress      string = "in_progress_employees"
	hashKeyInProgressMutex string = "in_progress_mutex"
)

const unlockScript string = `
local current_value = redis.call('GET', KEYS[1])
if current_value == ARGV[1] then
	return redis.call('DEL', KEYS[1])
end
return 0
`

type redisCache struct {
	sync.WaitGroup
	redisClient *redis.Client
	config      struct {
		address                 string
		port                    string
		password                string
		database                int
		timeout                 time.Duration
		inProgressPruneInterval time.Duration
		inProgressTTL           time.Duration
		inProgressEnabled       bool
		mutexExpiration         time.Duration
		mutexRetryInterval      time.Duration
	}
	mutexToken string
	ctx        context.Context
	ctxCancel  context.CancelFunc
	utilities.Logger
}

func NewRedis(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	Cache
} {
	c := &redisCache{
		Logger:     utilities.NewNopLogger(),
		mutexToken: internal.GenerateId(),
	}
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			c.Logger = p
		}
	}
	return c
}

func (c *redisCache) launchPruneInProgress() {
	started := make(chan struct{})
	c.Add(1)
	go func() {
		defer c.Done()

		pruneFx := func() {
			if !c.lock(c.ctx) {
				return
			}
			defer c.unlock(c.ctx)

			values, err := c.redisClient.HGetAll(c.ctx, hashKeyInProgress).Result()
			if err != nil {
				c.Error(c.ctx, "error while reading in progress snapshots: %s", err)
				return
			}
			var fieldsToDelete []string
			for snapshot, value := range values {
				t, _ := strconv.ParseInt(value, 10, 64)
				if time.Since(time.Unix(0, t)) > c.config.inProgressTTL {
					fieldsToDelete = append(fieldsToDelete, snapshot)
				}
			}
			if len(fieldsToDelete) > 0 {
				_, _ = c.redisClient.HDel(c.ctx, hashKeyInProgress, fieldsToDelete...).Result()
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

// lock is a best effort distributed mutex shared by every cache instance
// pointed at the same redis; it returns false if ctx is done first.
func (c *redisCache) lock(ctx context.Context) bool {
	lockFx := func() bool {
		result, err := c.redisClient.SetNX(ctx, hashKeyInProgressMutex,
			c.mutexToken, c.config.mutexExpiration).Result()
		if err != nil {
			return false
		}
		return result
	}
	if lockFx() {
		return true
	}
	tRetry := time.NewTicker(c.config.mutexRetryInterval)
	defer tRetry.Stop()
	for {
		select {
		case <-tRetry.C:
			if lockFx() {
				return true
			}
		case <-ctx.Done():
			return false
		}
	}
}

func (c *redisCache) unlock(ctx context.Context) {
	i, err := c.redisClient.Eval(ctx, unlockScript,
		[]string{hashKeyInProgressMutex}, c.mutexToken).Int64()
	if err != nil {
		c.Error(ctx, "error while unlocking in progress mutex: %s", err)
		return
	}
	if i != 1 {
		c.Error(ctx, "in progress mutex expired before it was unlocked")
	}
}

func (c *redisCache) Configure(envs map[string]string) error {
	c.config.timeout = 10 * time.Second
	c.config.mutexExpiration = 10 * time.Second
	c.config.mutexRetryInterval = time.Second
	c.config.inProgressPruneInterval = 10 * time.Second
	c.config.inProgressTTL = 10 * time.Second
	c.config.port = "6379"
	if redisAddress, ok := envs["REDIS_ADDRESS"]; ok {
		c.config.address = redisAddress
	}
	if redisPort, ok := envs["REDIS_PORT"]; ok && redisPort != "" {
		c.config.port = redisPort
	}
	if redisPassword, ok := envs["REDIS_PASSWORD"]; ok {
		c.config.password = redisPassword
	}
	if redisDatabase, ok := envs["REDIS_DATABASE"]; ok {
		i, _ := strconv.ParseInt(redisDatabase, 10, 64)
		c.config.database = int(i)
	}
	if redisTimeout, ok := envs["REDIS_TIMEOUT"]; ok {
		if i, _ := strconv.ParseInt(redisTimeout, 10, 64); i > 0 {
			c.config.timeout = time.Duration(i) * time.Second
		}
	}
	if s, ok := envs["CACHE_PRUNE_INTERVAL"]; ok {
		if i, _ := strconv.Atoi(s); i > 0 {
			c.config.inProgressPruneInterval = time.Second * time.Duration(i)
		}
	}
	if s, ok := envs["CACHE_SET_READ_TTL"]; ok {
		if i, _ := strconv.Atoi(s); i > 0 {
			c.config.inProgressTTL = time.Second * time.Duration(i)
		}
	}
	if inProgressEnabled, ok := envs["CACHE_ENABLE_IN_PROGRESS"]; ok {
		c.config.inProgressEnabled, _ = strconv.ParseBool(inProgressEnabled)
	}
	if s, ok := envs["CACHE_REDIS_MUTEX_EXPIRATION"]; ok {
		if i, _ := strconv.Atoi(s); i > 0 {
			c.config.mutexExpiration = time.Second * time.Duration(i)
		}
	}
	if s, ok := envs["REDIS_MUTEX_RETRY_INTERVAL"]; ok {
		if i, _ := strconv.Atoi(s); i > 0 {
			c.config.mutexRetryInterval = time.Second * time.Duration(i)
		}
	}
	return nil
}

func (c *redisCache) Open(ctx context.Context) error {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(c.config.address, c.config.port),
		Password: c.config.password,
		DB:       c.config.database,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return data.Wrapf(data.ErrIO, err, "unable to connect to redis")
	}
	c.redisClient = redisClient
	c.ctx, c.ctxCancel = context.WithCancel(context.Background())
	if c.config.inProgressEnabled {
		c.launchPruneInProgress()
	}
	return nil
}

func (c *redisCache) Close(ctx context.Context) error {
	if c.redisClient == nil {
		return nil
	}
	c.ctxCancel()
	c.Wait()
	if err := c.redisClient.Close(); err != nil {
		c.Error(ctx, "error while shutting down redis client: %s", err)
	}
	return nil
}

func (c *redisCache) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.Del(ctx, hashKeyEmployees, hashKeyInProgress,
		hashKeyInProgressMutex).Result(); err != nil {
		return err
	}
	return nil
}

func (c *redisCache) EmployeesRead(ctx context.Context, snapshot string) (data.Employees, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	value, err := c.redisClient.HGet(ctx, hashKeyEmployees, snapshot).Result()
	if err != nil {
		switch {
		default:
			return nil, err
		case errors.Is(err, redis.Nil):
			if !c.config.inProgressEnabled {
				return nil, ErrEmployeesNotCached
			}
			if !c.lock(ctx) {
				return nil, ctx.Err()
			}
			defer c.unlock(ctx)
			result, err := c.redisClient.HSetNX(ctx, hashKeyInProgress, snapshot,
				strconv.FormatInt(time.Now().UnixNano(), 10)).Result()
			if err != nil {
				return nil, data.Wrapf(data.ErrIO, err, "error while setting snapshot (%s) read in progress", snapshot)
			}
			if !result {
				return nil, ErrEmployeesReadAlreadySet
			}
			return nil, ErrEmployeesReadSet
		}
	}
	var employees data.Employees
	if err := employees.UnmarshalBinary([]byte(value)); err != nil {
		return nil, err
	}
	c.Trace(ctx, "cache hit for snapshot: %s", snapshot)
	return employees, nil
}

func (c *redisCache) EmployeesWrite(ctx context.Context, snapshot string, employees data.Employees) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	bytes, err := employees.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := c.redisClient.HSet(ctx, hashKeyEmployees, snapshot,
		string(bytes)).Result(); err != nil {
		return err
	}
	if c.config.inProgressEnabled {
		if !c.lock(ctx) {
			return ctx.Err()
		}
		defer c.unlock(ctx)
		_, _ = c.redisClient.HDel(ctx, hashKeyInProgress, snapshot).Result()
	}
	c.Trace(ctx, "cached %d employees for snapshot: %s", len(employees), snapshot)
	return nil
}

func (c *redisCache) EmployeesDelete(ctx context.Context, snapshots ...string) error {
	if len(snapshots) <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout)
	defer cancel()
	if _, err := c.redisClient.HDel(ctx, hashKeyEmployees,
		snapshots...).Result(); err != nil {
		return err
	}
	if c.config.inProgressEnabled {
		if !c.lock(ctx) {
			return ctx.Err()
		}
		defer c.unlock(ctx)
		_, _ = c.redisClient.HDel(ctx, hashKeyInProgress, snapshots...).Result()
	}
	return nil
}
