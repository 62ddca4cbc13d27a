package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/reporter"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const (
	timerCreator  string = "creator"
	timerReporter string = "reporter"
)

type Orchestrator struct {
	config Config
	params struct {
		binaryPath string
		count      int
		reportPath string
		rate       float64
	}
	state    State
	process  Process
	timer    int
	runner   Runner
	store    store.Store
	prompter *utilities.Prompter
	timers   utilities.Timers
	format   reporter.Format
	utilities.Logger
}

func NewOrchestrator(parameters ...any) *Orchestrator {
	o := &Orchestrator{
		config: DefaultConfig(),
		Logger: utilities.NewNopLogger(),
		timers: utilities.NewTimers(),
	}
	o.format, _ = reporter.FormatFor(reporter.LanguageEnglish)
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case Runner:
			o.runner = p
		case store.Store:
			o.store = p
		case *utilities.Prompter:
			o.prompter = p
		case utilities.Timers:
			o.timers = p
		case reporter.Format:
			o.format = p
		case utilities.Logger:
			o.Logger = p
		}
	}
	if o.runner == nil {
		o.runner = NewExecRunner(nil, nil, nil)
	}
	if o.store == nil {
		o.store = store.NewFile(o.Logger)
	}
	if o.prompter == nil {
		o.prompter = utilities.NewPrompter(nil, nil)
	}
	return o
}

func (o *Orchestrator) Configure(envs map[string]string) error {
	config := DefaultConfig()
	if configFile := envs["ORCHESTRATOR_CONFIG_FILE"]; configFile != "" {
		c, err := LoadConfig(configFile)
		if err != nil {
			return err
		}
		config = c
	}
	if err := config.fromEnvs(envs); err != nil {
		return err
	}
	if err := config.validate(); err != nil {
		return err
	}
	o.config = config
	return nil
}

func (o *Orchestrator) Config() Config {
	return o.config
}

func (o *Orchestrator) State() State {
	return o.state
}

// Run drives the pipeline from StateStart to StateDone. The first error
// leaves the orchestrator in StateFailed; files already written stay.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.state = StateStart
	for o.state != StateDone {
		next, err := o.step(ctx)
		if err != nil {
			o.Error(ctx, "pipeline failed during %s: %s", o.state, err)
			o.state = StateFailed
			return err
		}
		o.Trace(ctx, "%s -> %s", o.state, next)
		o.state = next
	}
	o.prompter.Println("Program completed successfully!")
	return nil
}

func (o *Orchestrator) step(ctx context.Context) (State, error) {
	switch o.state {
	default:
		return StateFailed, data.Errorf(data.ErrUsage, "unexpected state: %s", o.state)
	case StateStart:
		return StateCollectCreateParams, nil
	case StateCollectCreateParams:
		return StateRunCreator, o.collectCreateParams(ctx)
	case StateRunCreator:
		return StateAwaitCreator, o.start(ctx, timerCreator, o.config.CreatorPath,
			o.params.binaryPath, strconv.Itoa(o.params.count))
	case StateAwaitCreator:
		return StateDisplayBinary, o.await(ctx, timerCreator)
	case StateDisplayBinary:
		o.displayBinary(ctx)
		return StateCollectReportParams, nil
	case StateCollectReportParams:
		return StateRunReporter, o.collectReportParams(ctx)
	case StateRunReporter:
		return StateAwaitReporter, o.start(ctx, timerReporter, o.config.ReporterPath,
			o.params.binaryPath, o.params.reportPath, strconv.FormatFloat(o.params.rate, 'f', -1, 64))
	case StateAwaitReporter:
		return StateDisplayReport, o.await(ctx, timerReporter)
	case StateDisplayReport:
		o.displayReport(ctx)
		return StateDone, nil
	}
}

func (o *Orchestrator) collectCreateParams(ctx context.Context) error {
	binaryPath, err := o.promptFilename("Enter binary filename: ")
	if err != nil {
		return err
	}
	answer, err := o.promptAttempts("Enter number of records: ", func(answer string) bool {
		count, err := strconv.Atoi(answer)
		switch {
		case err != nil:
			o.prompter.Println("Invalid input. Please enter a number.")
		case count <= 0 || count > o.config.MaxRecords:
			o.prompter.Printf("Number of records must be between 1 and %d!\n", o.config.MaxRecords)
		default:
			return true
		}
		return false
	})
	if err != nil {
		return err
	}
	count, _ := strconv.Atoi(answer)
	if err := o.checkDiskSpace(ctx, binaryPath, count); err != nil {
		return err
	}
	o.params.binaryPath, o.params.count = binaryPath, count
	o.Debug(ctx, "creating %d records in %s", count, binaryPath)
	return nil
}

func (o *Orchestrator) collectReportParams(ctx context.Context) error {
	reportPath, err := o.promptFilename("Enter report filename: ")
	if err != nil {
		return err
	}
	answer, err := o.promptAttempts("Enter hourly rate: ", func(answer string) bool {
		rate, err := strconv.ParseFloat(answer, 64)
		switch {
		case err != nil:
			o.prompter.Println("Invalid input. Please enter a number.")
		case !(rate > 0) || rate > o.config.MaxRate:
			o.prompter.Printf("Hourly rate must be positive and <= %g\n", o.config.MaxRate)
		default:
			return true
		}
		return false
	})
	if err != nil {
		return err
	}
	o.params.reportPath = reportPath
	o.params.rate, _ = strconv.ParseFloat(answer, 64)
	o.Debug(ctx, "reporting on %s into %s at %g", o.params.binaryPath, reportPath, o.params.rate)
	return nil
}

func (o *Orchestrator) promptFilename(prompt string) (string, error) {
	filename, err := o.prompter.Prompt(prompt)
	if err != nil {
		return "", data.Wrapf(data.ErrIO, err, "unable to read filename")
	}
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	return filename, nil
}

// promptAttempts re-prompts until accept returns true, giving up after the
// configured number of attempts.
func (o *Orchestrator) promptAttempts(prompt string, accept func(answer string) bool) (string, error) {
	for attempt := 0; attempt < o.config.MaxAttempts; attempt++ {
		answer, err := o.prompter.Prompt(prompt)
		if err != nil {
			return "", data.Wrapf(data.ErrIO, err, "unable to read input")
		}
		if accept(answer) {
			return answer, nil
		}
	}
	return "", data.Errorf(data.ErrValidation, "too many invalid attempts")
}

func (o *Orchestrator) checkDiskSpace(ctx context.Context, binaryPath string, count int) error {
	needed := store.EstimateSize(count)
	available, err := store.FreeSpace(filepath.Dir(binaryPath))
	if err != nil {
		o.Error(ctx, "cannot check disk space: %s", err)
		return nil
	}
	if available >= needed {
		return nil
	}
	o.prompter.Printf("Warning: Low disk space. Available: %d KB, Needed: %d KB\n",
		available/1024, needed/1024)
	confirmed, err := o.prompter.Confirm("Continue anyway?")
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "unable to read confirmation")
	}
	if !confirmed {
		return data.Errorf(data.ErrUsage, "insufficient disk space")
	}
	return nil
}

func (o *Orchestrator) start(ctx context.Context, name, program string, args ...string) error {
	o.prompter.Printf("\nStarting %s...\n", name)
	o.timer = o.timers.Start(name)
	process, err := o.runner.Start(ctx, program, args...)
	if err != nil {
		return err
	}
	o.process = process
	return nil
}

func (o *Orchestrator) await(ctx context.Context, name string) error {
	o.prompter.Printf("Waiting for %s to finish...\n", name)
	exitCode, err := o.process.Wait()
	o.process = nil
	elapsed := o.timers.Stop(name, o.timer)
	if err != nil {
		return err
	}
	o.Info(ctx, "%s finished with exit code %d in %s", name, exitCode, time.Duration(elapsed))
	if exitCode != 0 {
		return data.Errorf(data.ErrProcess, "%s failed with exit code: %d", name, exitCode)
	}
	return nil
}

func (o *Orchestrator) displayBinary(ctx context.Context) {
	employees, err := o.store.ReadAll(ctx, o.params.binaryPath)
	if err != nil {
		o.Error(ctx, "cannot display %s: %s", o.params.binaryPath, err)
		return
	}
	o.prompter.Printf("\nContents of %s:\n", o.params.binaryPath)
	if len(employees) == 0 {
		o.prompter.Println("File is empty or contains no valid records.")
		return
	}
	o.prompter.Println(RenderEmployees(o.format, employees))
}

func (o *Orchestrator) displayReport(ctx context.Context) {
	bytes, err := os.ReadFile(o.params.reportPath)
	if err != nil {
		o.Error(ctx, "cannot display report %s: %s", o.params.reportPath, err)
		return
	}
	o.prompter.Println("\nReport contents:")
	content := strings.TrimRight(string(bytes), "\n")
	if content == "" {
		o.prompter.Println("Report file is empty.")
		return
	}
	o.prompter.Println(content)
}

// RenderEmployees draws the records as a bordered table.
func RenderEmployees(format reporter.Format, employees []data.Employee) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Name", "Hours")
	for _, e := range employees {
		t.Row(strconv.FormatInt(int64(e.EmpNo), 10), e.Name, format.Float(e.Hours))
	}
	return t.Render()
}

var _ internal.Configurer = (*Orchestrator)(nil)
