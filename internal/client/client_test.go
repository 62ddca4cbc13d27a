package client_test

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/cache"
	"github.com/antonio-alexander/go-employee-pipeline/internal/client"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/logic"
	"github.com/antonio-alexander/go-employee-pipeline/internal/service"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type clientTest struct {
	client interface {
		internal.Configurer
		internal.Opener
		client.Client
	}
	store interface {
		internal.Configurer
		store.Store
	}
	storePath string
}

func newClientTest(t *testing.T) *clientTest {
	ctx := context.TODO()
	listener, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		assert.FailNow(t, "unable to find a free port", err)
	}
	port := strconv.Itoa(listener.Addr().(*net.TCPAddr).Port)
	listener.Close()
	storePath := filepath.Join(t.TempDir(), "employees.bin")
	envs := map[string]string{
		//service
		"STORE_PATH":             storePath,
		"LOGIC_CACHE_ENABLED":    "true",
		"SERVICE_ADDRESS":        "localhost",
		"SERVICE_PORT":           port,
		"SERVICE_TIMERS_ENABLED": "true",

		//client
		"CLIENT_ADDRESS":  "localhost",
		"CLIENT_PORT":     port,
		"CLIENT_PROTOCOL": "http",
		"CLIENT_TIMEOUT":  "10",
	}

	counter := utilities.NewCounter()
	s := store.NewFile(counter)
	c := cache.NewMemory()
	l := logic.NewLogic(s, c)
	svc := service.NewService(l, c, counter)
	cl := client.NewClient()
	for _, configurer := range []internal.Configurer{s, c, l, svc, cl} {
		if err := configurer.Configure(envs); err != nil {
			assert.FailNow(t, "unable to configure", err)
		}
	}
	openers := []internal.Opener{c, l, svc, cl}
	for _, opener := range openers {
		if err := opener.Open(ctx); err != nil {
			assert.FailNow(t, "unable to open", err)
		}
	}
	t.Cleanup(func() {
		for i := len(openers) - 1; i >= 0; i-- {
			_ = openers[i].Close(context.TODO())
		}
	})
	return &clientTest{
		client:    cl,
		store:     s,
		storePath: storePath,
	}
}

func (c *clientTest) TestEmployees(t *testing.T) {
	ctx := internal.CtxWithCorrelationId(context.TODO(), "client-test")

	//the binary file doesn't exist yet
	_, err := c.client.EmployeesRead(ctx)
	assert.True(t, errors.Is(err, data.ErrNotFound))

	for _, employee := range []data.Employee{
		{EmpNo: 3, Name: "Bob", Hours: 42.5},
		{EmpNo: 1, Name: "John", Hours: 40.5},
	} {
		err := c.store.Append(ctx, c.storePath, employee)
		assert.Nil(t, err)
	}
	employees, err := c.client.EmployeesRead(ctx)
	assert.Nil(t, err)
	assert.Equal(t, data.Employees{
		{EmpNo: 3, Name: "Bob", Hours: 42.5},
		{EmpNo: 1, Name: "John", Hours: 40.5},
	}, employees)

	employee, err := c.client.EmployeeRead(ctx, 1)
	assert.Nil(t, err)
	assert.Equal(t, &data.Employee{EmpNo: 1, Name: "John", Hours: 40.5}, employee)
	_, err = c.client.EmployeeRead(ctx, 2)
	assert.True(t, errors.Is(err, data.ErrNotFound))

	//appending changes the snapshot, so the cache is bypassed
	err = c.store.Append(ctx, c.storePath, data.Employee{EmpNo: 2, Name: "Alice", Hours: 35})
	assert.Nil(t, err)
	employee, err = c.client.EmployeeRead(ctx, 2)
	assert.Nil(t, err)
	assert.Equal(t, &data.Employee{EmpNo: 2, Name: "Alice", Hours: 35}, employee)
}

func (c *clientTest) TestReport(t *testing.T) {
	ctx := context.TODO()

	report, err := c.client.ReportRead(ctx, 10)
	assert.Nil(t, err)
	if assert.NotNil(t, report) {
		assert.Equal(t, float64(10), report.Rate)
		assert.Equal(t, []data.ReportRow{
			{EmpNo: 1, Name: "John", Hours: 40.5, Salary: 405},
			{EmpNo: 2, Name: "Alice", Hours: 35, Salary: 350},
			{EmpNo: 3, Name: "Bob", Hours: 42.5, Salary: 425},
		}, report.Rows)
	}
	_, err = c.client.ReportRead(ctx, -1)
	assert.True(t, errors.Is(err, data.ErrUsage))
}

func (c *clientTest) TestCountersTimers(t *testing.T) {
	ctx := context.TODO()

	//two blocks were read, then three after the append
	counters, err := c.client.CountersRead(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 5, counters.Valid[c.storePath])
	err = c.client.CountersClear(ctx)
	assert.Nil(t, err)
	counters, err = c.client.CountersRead(ctx)
	assert.Nil(t, err)
	assert.Empty(t, counters.Valid)

	//cached reads don't touch the file
	_, err = c.client.EmployeesRead(ctx)
	assert.Nil(t, err)
	counters, err = c.client.CountersRead(ctx)
	assert.Nil(t, err)
	assert.Empty(t, counters.Valid)

	err = c.client.CacheClear(ctx)
	assert.Nil(t, err)
	_, err = c.client.EmployeesRead(ctx)
	assert.Nil(t, err)
	counters, err = c.client.CountersRead(ctx)
	assert.Nil(t, err)
	assert.Equal(t, 3, counters.Valid[c.storePath])

	timers, err := c.client.TimersRead(ctx)
	assert.Nil(t, err)
	assert.Contains(t, timers.Totals, "employees_read")
	err = c.client.TimersClear(ctx)
	assert.Nil(t, err)
	timers, err = c.client.TimersRead(ctx)
	assert.Nil(t, err)
	assert.Empty(t, timers.Totals)
}

func TestClient(t *testing.T) {
	c := newClientTest(t)

	t.Run("Employees", c.TestEmployees)
	t.Run("Report", c.TestReport)
	t.Run("Counters and Timers", c.TestCountersTimers)
}

func TestOpen(t *testing.T) {
	c := client.NewClient()
	err := c.Configure(map[string]string{"CLIENT_PROTOCOL": "ftp"})
	assert.Nil(t, err)
	err = c.Open(context.TODO())
	assert.True(t, errors.Is(err, data.ErrUsage))
	err = c.Configure(map[string]string{"CLIENT_TIMEOUT": "ten"})
	assert.True(t, errors.Is(err, data.ErrUsage))
}
