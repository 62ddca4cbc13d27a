package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/reporter"
	"github.com/antonio-alexander/go-employee-pipeline/internal/sql"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"
)

func main() {
	osSignal := make(chan os.Signal, 1)
	signal.Notify(osSignal, syscall.SIGINT, syscall.SIGTERM)
	if err := Main(os.Args[1:], internal.EnvsFromOs(), osSignal); err != nil {
		fmt.Fprintf(os.Stderr, "error in reporter: %s\n", err)
		os.Exit(1)
	}
}

// export replaces the report's rows in mysql.
func export(ctx context.Context, envs map[string]string, logger utilities.Logger, report *data.Report) error {
	sql := sql.NewMySql(logger)
	if err := sql.Configure(envs); err != nil {
		return err
	}
	if err := sql.Open(ctx); err != nil {
		return err
	}
	defer func() {
		if err := sql.Close(context.Background()); err != nil {
			logger.Error(context.Background(), "error while closing sql: %s", err)
		}
	}()
	return sql.ReportWrite(ctx, report)
}

func Main(args []string, envs map[string]string, osSignal chan os.Signal) error {
	var wg sync.WaitGroup

	if len(args) != 3 {
		return data.Errorf(data.ErrUsage, "usage: reporter <binary_path> <report_path> <hourly_rate>")
	}
	rate, err := reporter.ParseRate(args[2])
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
	logger.Debug(ctx, "reporter v%s (%s) built from: %s", data.Version, data.GitCommit, data.GitBranch)

	counter := utilities.NewCounter()
	store := store.NewFile(logger, counter)
	if err := store.Configure(envs); err != nil {
		return err
	}
	r := reporter.NewReporter(store, logger)
	if err := r.Configure(envs); err != nil {
		return err
	}
	report, err := r.Run(ctx, args[0], args[1], rate)
	if err != nil {
		return err
	}
	if valid, skipped := counter.Read(args[0]); skipped > 0 {
		logger.Info(ctx, "skipped %d invalid blocks in %s (%d valid)", skipped, args[0], valid)
	}
	fmt.Printf("Report successfully created: %s\n", args[1])
	if exportEnabled, _ := strconv.ParseBool(envs["REPORTER_EXPORT_ENABLED"]); exportEnabled {
		if err := export(ctx, envs, logger, report); err != nil {
			return err
		}
		logger.Info(ctx, "exported %d rows for %s", len(report.Rows), report.Source)
	}
	return nil
}
