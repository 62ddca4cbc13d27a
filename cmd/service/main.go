package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/cache"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/logic"
	"github.com/antonio-alexander/go-employee-pipeline/internal/service"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/antonio-alexander/go-stash/memory"
	"github.com/antonio-alexander/go-stash/redis"
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
		fmt.Fprintf(os.Stderr, "error in service: %s\n", err)
		os.Exit(1)
	}
}

// createCache returns nil when CACHE_TYPE is empty or unknown; the logic
// then reads the binary file on every request.
func createCache(envs map[string]string, parameters ...any) interface {
	internal.Configurer
	internal.Opener
	internal.Clearer
	cache.Cache
} {
	switch envs["CACHE_TYPE"] {
	default:
		return nil
	case "memory":
		return cache.NewMemory(parameters...)
	case "redis":
		return cache.NewRedis(parameters...)
	case "stash-memory":
		parameters = append(parameters, memory.New())
		return cache.NewStash(parameters...)
	case "stash-redis":
		parameters = append(parameters, redis.New())
		return cache.NewStash(parameters...)
	}
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup
	var openers []internal.Opener

	//create context
	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer cancel()

	// create utilities
	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	timers := utilities.NewTimers()
	counter := utilities.NewCounter()

	//print version info
	logger.Info(ctx, "service: go-employee-pipeline v%s (%s) built from: %s",
		Version, GitCommit, GitBranch)

	//create store
	store := store.NewFile(logger, counter)
	if err := store.Configure(envs); err != nil {
		return err
	}

	//create cache, logic and service; a nil cache isn't handed over
	// since it would still satisfy the cache interface
	var configurers []internal.Configurer
	logicParameters := []any{store, logger}
	serviceParameters := []any{counter, timers, logger}
	if cache := createCache(envs, logger); cache != nil {
		logicParameters = append(logicParameters, cache)
		serviceParameters = append(serviceParameters, cache)
		configurers = append(configurers, cache)
		openers = append(openers, cache)
	}
	logic := logic.NewLogic(logicParameters...)
	service := service.NewService(append(serviceParameters, logic)...)
	configurers = append(configurers, logic, service)
	openers = append(openers, logic, service)
	for _, configurer := range configurers {
		if err := configurer.Configure(envs); err != nil {
			return err
		}
	}
	defer func() {
		for i := len(openers) - 1; i >= 0; i-- {
			if err := openers[i].Close(context.Background()); err != nil {
				logger.Error(context.Background(), "error while closing: %s", err)
			}
		}
	}()
	for i, opener := range openers {
		if err := opener.Open(ctx); err != nil {
			openers = openers[:i]
			return err
		}
	}
	<-ctx.Done()
	wg.Wait()
	return nil
}
