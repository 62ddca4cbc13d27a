package main

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/creator"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"
)

func main() {
	//KIM: signals aren't captured, an operator's ctrl+c has to be able
	// to interrupt a blocking read from stdin
	if err := Main(os.Args[1:], internal.EnvsFromOs(), nil); err != nil {
		fmt.Fprintf(os.Stderr, "error in creator: %s\n", err)
		os.Exit(1)
	}
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	if len(args) != 2 {
		return data.Errorf(data.ErrUsage, "usage: creator <binary_path> <record_count>")
	}
	count, err := creator.ParseCount(args[1])
	if err != nil {
		return err
	}

	ctx, cancel := internal.LaunchContext(&wg, osSignal)
	defer func() {
		cancel()
		wg.Wait()
	}()
	ctx = internal.ContextFromEnvs(ctx, envs)

	logger := utilities.NewLogger()
	_ = logger.Configure(envs)
	logger.Debug(ctx, "creator v%s (%s) built from: %s", data.Version, data.GitCommit, data.GitBranch)

	counter := utilities.NewCounter()
	store := store.NewFile(logger, counter)
	if err := store.Configure(envs); err != nil {
		return err
	}
	c := creator.NewCreator(store, utilities.NewPrompter(nil, nil), logger)
	if err := c.Configure(envs); err != nil {
		return err
	}
	written, err := c.Create(ctx, args[0], count)
	if err != nil {
		return err
	}
	logger.Info(context.Background(), "wrote %d records to %s", written, args[0])
	return nil
}
