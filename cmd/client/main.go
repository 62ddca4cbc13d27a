package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/client"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"
)

var (
	Version   string
	GitCommit string
	GitBranch string
)

func init() {
	if Version = data.Version; Version == "" {
		Version = "<no_version_provided>"
	}
	if GitCommit = data.GitCommit; GitCommit == "" {
		GitCommit = "<no_git_commit>"
	}
	if GitBranch = data.GitBranch; GitBranch == "" {
		GitBranch = "<no_git_branch>"
	}
}

func main() {
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(os.Args[1:], internal.EnvsFromOs(), osSignal); err != nil {
		fmt.Fprintf(os.Stderr, "error in client: %s\n", err)
		os.Exit(1)
	}
}

func execute(ctx context.Context, c client.Client, command string, envs map[string]string) (any, error) {
	switch command {
	default:
		return nil, data.Errorf(data.ErrUsage, "unsupported command: %s", command)
	case "employees_read":
		return c.EmployeesRead(ctx)
	case "employee_read":
		empNo, err := strconv.ParseInt(envs["EMP_NO"], 10, 32)
		if err != nil {
			return nil, data.Wrapf(data.ErrUsage, err, "invalid EMP_NO")
		}
		return c.EmployeeRead(ctx, int32(empNo))
	case "report_read":
		rate, err := strconv.ParseFloat(envs["RATE"], 64)
		if err != nil {
			return nil, data.Wrapf(data.ErrUsage, err, "invalid RATE")
		}
		return c.ReportRead(ctx, rate)
	case "counters_read":
		return c.CountersRead(ctx)
	case "counters_clear":
		return nil, c.CountersClear(ctx)
	case "timers_read":
		return c.TimersRead(ctx)
	case "timers_clear":
		return nil, c.TimersClear(ctx)
	case "cache_clear":
		return nil, c.CacheClear(ctx)
	}
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()
	ctx = internal.CtxWithCorrelationId(ctx, internal.GenerateId())

	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	logger.Debug(ctx, "client: go-employee-pipeline v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create client
	client := client.NewClient(logger)
	if err := client.Configure(envs); err != nil {
		return err
	}
	if err := client.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing client: %s", err)
		}
	}()

	// execute command
	command := envs["COMMAND"]
	if len(args) > 0 {
		command = args[0]
	}
	item, err := execute(ctx, client, command, envs)
	if err != nil {
		return err
	}
	if item == nil {
		logger.Info(ctx, "executed %s", command)
		return nil
	}
	bytes, err := json.MarshalIndent(item, "", " ")
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}
