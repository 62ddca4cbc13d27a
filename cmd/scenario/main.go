package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/client"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
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
		fmt.Fprintf(os.Stderr, "error in scenario: %s\n", err)
		os.Exit(1)
	}
}

func durationFromEnvs(envs map[string]string, key string, defaultDuration time.Duration) time.Duration {
	if s := envs[key]; s != "" {
		if i, _ := strconv.Atoi(s); i > 0 {
			return time.Duration(i) * time.Second
		}
	}
	return defaultDuration
}

// appends to the service's binary file while the other clients read reports
// from it; every append changes the file's snapshot so the next read misses
// the cache
func scenarioStampedingHerd(ctx context.Context, envs map[string]string, logger utilities.Logger,
	s store.Store, clients ...client.Client) error {
	const correlationId string = "scenario_stampeding_herd"
	const minClients int = 2
	const rate float64 = 10

	var wg sync.WaitGroup
	var requests, failures atomic.Int64

	readInterval := durationFromEnvs(envs, "SCENARIO_READ_INTERVAL", time.Second)
	appendInterval := durationFromEnvs(envs, "SCENARIO_UPDATE_INTERVAL", 2*time.Second)
	scenarioDuration := durationFromEnvs(envs, "SCENARIO_DURATION", 10*time.Second)
	storePath := envs["STORE_PATH"]
	if storePath == "" {
		return data.Errorf(data.ErrUsage, "STORE_PATH is required")
	}
	if len(clients) < minClients {
		return data.Errorf(data.ErrUsage, "not enough clients provided")
	}

	//generate context
	ctx = internal.CtxWithCorrelationId(ctx, correlationId)

	//seed the binary file
	if err := s.TruncateOrCreate(ctx, storePath); err != nil {
		return err
	}
	if err := s.Append(ctx, storePath, data.Employee{EmpNo: 1, Name: "Seed", Hours: 40}); err != nil {
		return err
	}
	logger.Info(ctx, "seeded binary file: %s", storePath)

	//generate start/stop channels
	start, stop := make(chan struct{}), make(chan struct{})

	//create writer go routine
	wg.Add(1)
	go func() {
		defer wg.Done()

		empNo := int32(1)
		tAppend := time.NewTicker(appendInterval)
		defer tAppend.Stop()
		<-start
		for {
			select {
			case <-stop:
				return
			case <-tAppend.C:
				empNo++
				employee := data.Employee{EmpNo: empNo, Name: fmt.Sprintf("Emp%d", empNo), Hours: float64(empNo)}
				if err := s.Append(ctx, storePath, employee); err != nil {
					logger.Error(ctx, "error while appending employee: %s", err)
				}
			}
		}
	}()

	//create reader go routines
	for i := 1; i < len(clients); i++ {
		wg.Add(1)
		go func(clientNumber int, client client.Client) {
			defer wg.Done()

			ctx := internal.CtxWithCorrelationId(ctx,
				fmt.Sprintf("%s_%d", correlationId, clientNumber))
			tRead := time.NewTicker(readInterval)
			defer tRead.Stop()
			<-start
			for {
				select {
				case <-stop:
					return
				case <-tRead.C:
					requests.Add(1)
					if _, err := client.ReportRead(ctx, rate); err != nil {
						failures.Add(1)
						logger.Error(ctx, "error while reading report: %s", err)
					}
				}
			}
		}(i, clients[i])
	}

	//clear cache and counters, then start the go routines
	if err := clients[0].CacheClear(ctx); err != nil {
		return err
	}
	if err := clients[0].CountersClear(ctx); err != nil {
		return err
	}
	close(start)

	//allow go routines to run
	select {
	case <-ctx.Done():
	case <-time.After(scenarioDuration):
	}

	//stop go routines
	close(stop)
	wg.Wait()

	//every block the service read came from a cache miss
	counters, err := clients[0].CountersRead(ctx)
	if err != nil {
		return err
	}
	blocks := counters.Valid[storePath] + counters.Skipped[storePath]
	total := requests.Load()
	if total == 0 {
		logger.Info(ctx, "no reports were requested")
		return nil
	}
	logger.Info(ctx, "reports requested: %d (%d failed), blocks read: %d, blocks per request: %0.2f",
		total, failures.Load(), blocks, float64(blocks)/float64(total))
	return nil
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var clients []client.Client
	var wg sync.WaitGroup

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()

	// create logger
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)

	//print version info
	logger.Info(ctx, "scenarios: go-employee-pipeline v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create store, it must point at the same file as the service
	s := store.NewFile(logger)
	if err := s.Configure(envs); err != nil {
		return err
	}

	nClients, _ := strconv.Atoi(envs["N_CLIENTS"])
	for range nClients {
		client := client.NewClient(logger)
		if err := client.Configure(envs); err != nil {
			return err
		}
		if err := client.Open(ctx); err != nil {
			return err
		}
		defer func() {
			if err := client.Close(context.Background()); err != nil {
				logger.Error(ctx, "error while closing client: %s", err)
			}
		}()
		clients = append(clients, client)
	}

	// execute scenario
	switch scenario := envs["SCENARIO"]; scenario {
	default:
		return data.Errorf(data.ErrUsage, "unsupported scenario: %s", scenario)
	case "stampeding_herd":
		logger.Info(ctx, "executing %s scenario", scenario)
		if err := scenarioStampedingHerd(ctx, envs, logger, s, clients...); err != nil {
			logger.Error(ctx, "error while executing %s scenario: %s", scenario, err)
		}
	}
	return nil
}
