package cache_test

import (
	"context"
	"testing"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/cache"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var envs = map[string]string{
	"REDIS_PORT":    "6379",
	"REDIS_TIMEOUT": "10",
}

func init() {
	for key, value := range internal.EnvsFromOs() {
		envs[key] = value
	}
}

type cacheTest struct {
	cache interface {
		internal.Configurer
		internal.Opener
		internal.Clearer
		cache.Cache
	}
}

func newCacheTest(cacheType string) *cacheTest {
	c := &cacheTest{}
	switch cacheType {
	case "memory":
		c.cache = cache.NewMemory()
	case "redis":
		c.cache = cache.NewRedis()
	case "stash-memory":
		c.cache = cache.NewStash(memory.New())
	case "stash-redis":
		c.cache = cache.NewStash(redis.New())
	}
	return c
}

func (c *cacheTest) TestCache(t *testing.T) {
	ctx := context.TODO()
	snapshot := "employees.bin:" + internal.GenerateId()
	employees := data.Employees{
		{EmpNo: 1, Name: "John", Hours: 40.5},
		{EmpNo: 2, Name: "Alice", Hours: 35},
		{EmpNo: 3, Name: "Bob", Hours: 0},
	}

	err := c.cache.Clear(ctx)
	assert.Nil(t, err)

	_, err = c.cache.EmployeesRead(ctx, snapshot)
	assert.NotNil(t, err)

	err = c.cache.EmployeesWrite(ctx, snapshot, employees)
	assert.Nil(t, err)
	employeesRead, err := c.cache.EmployeesRead(ctx, snapshot)
	assert.Nil(t, err)
	assert.Equal(t, employees, employeesRead)

	//a different snapshot of the same file isn't a hit
	_, err = c.cache.EmployeesRead(ctx, snapshot+"-modified")
	assert.NotNil(t, err)

	err = c.cache.EmployeesDelete(ctx, snapshot)
	assert.Nil(t, err)
	_, err = c.cache.EmployeesRead(ctx, snapshot)
	assert.NotNil(t, err)
}

func testCache(t *testing.T, cacheType string) {
	c := newCacheTest(cacheType)

	err := c.cache.Configure(envs)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to configure cache")
	}
	err = c.cache.Open(context.TODO())
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to open cache")
	}
	defer func() {
		if err := c.cache.Close(context.TODO()); err != nil {
			t.Logf("error while closing cache: %s", err)
		}
	}()
	t.Run("Cache", c.TestCache)
}

func TestCacheMemory(t *testing.T) {
	testCache(t, "memory")
}

func TestCacheMemoryInProgress(t *testing.T) {
	ctx := context.TODO()
	c := cache.NewMemory()
	err := c.Configure(map[string]string{"CACHE_ENABLE_IN_PROGRESS": "true"})
	assert.Nil(t, err)
	err = c.Open(ctx)
	assert.Nil(t, err)
	defer c.Close(ctx)

	_, err = c.EmployeesRead(ctx, "employees.bin:24:1")
	assert.True(t, errors.Is(err, cache.ErrEmployeesReadSet))
	_, err = c.EmployeesRead(ctx, "employees.bin:24:1")
	assert.True(t, errors.Is(err, cache.ErrEmployeesReadAlreadySet))

	employees := data.Employees{{EmpNo: 1, Name: "John", Hours: 40.5}}
	err = c.EmployeesWrite(ctx, "employees.bin:24:1", employees)
	assert.Nil(t, err)
	employeesRead, err := c.EmployeesRead(ctx, "employees.bin:24:1")
	assert.Nil(t, err)
	assert.Equal(t, employees, employeesRead)

	//reads are copies
	employeesRead[0].Name = "Changed"
	employeesRead, err = c.EmployeesRead(ctx, "employees.bin:24:1")
	assert.Nil(t, err)
	assert.Equal(t, "John", employeesRead[0].Name)
}

func TestCacheRedis(t *testing.T) {
	if envs["REDIS_ADDRESS"] == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	testCache(t, "redis")
}

func TestCacheStash(t *testing.T) {
	if envs["REDIS_ADDRESS"] == "" {
		t.Skip("REDIS_ADDRESS not set")
	}
	t.Run("Memory", func(t *testing.T) { testCache(t, "stash-memory") })
	t.Run("Redis", func(t *testing.T) { testCache(t, "stash-redis") })
}
