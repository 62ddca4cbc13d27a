package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/orchestrator"
	"github.com/antonio-alexander/go-employee-pipeline/internal/reporter"
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
	//KIM: signals aren't captured, an operator's ctrl+c has to be able
	// to interrupt a blocking read from stdin
	if err := Main(os.Args[1:], internal.EnvsFromOs(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "error in orchestrator: %s\n", err)
		os.Exit(1)
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
	logger.Info(ctx, "orchestrator v%s (%s) built from: %s", Version, GitCommit, GitBranch)

	store := store.NewFile(logger)
	if err := store.Configure(envs); err != nil {
		return err
	}
	format, err := reporter.FormatFor(envs["REPORT_LANGUAGE"])
	if err != nil {
		return err
	}
	timers := utilities.NewTimers()
	o := orchestrator.NewOrchestrator(
		orchestrator.NewExecRunner(nil, nil, nil),
		store,
		utilities.NewPrompter(nil, nil),
		timers,
		format,
		logger,
	)
	if err := o.Configure(envs); err != nil {
		return err
	}
	if err := o.Run(ctx); err != nil {
		return err
	}
	for group, total := range timers.ReadAll().Totals {
		logger.Debug(ctx, "%s: %dns", group, total)
	}
	return nil
}
