package reporter

import (
	"bufio"
	"context"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"
)

type Reporter struct {
	config struct {
		format Format
	}
	store store.Store
	utilities.Logger
}

func NewReporter(parameters ...any) *Reporter {
	r := &Reporter{Logger: utilities.NewNopLogger()}
	r.config.format, _ = FormatFor(LanguageEnglish)
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case store.Store:
			r.store = p
		case Format:
			r.config.format = p
		case utilities.Logger:
			r.Logger = p
		}
	}
	return r
}

func (r *Reporter) Configure(envs map[string]string) error {
	if language, ok := envs["REPORT_LANGUAGE"]; ok {
		format, err := FormatFor(language)
		if err != nil {
			return err
		}
		r.config.format = format
	}
	if s, ok := envs["REPORT_PRECISION"]; ok && s != "" {
		precision, err := strconv.Atoi(s)
		if err != nil || precision <= 0 {
			return data.Errorf(data.ErrUsage, "invalid REPORT_PRECISION: %s", s)
		}
		r.config.format.Precision = precision
	}
	return nil
}

func (r *Reporter) Format() Format {
	return r.config.format
}

// ParseRate validates the hourly rate argument.
func ParseRate(s string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, data.Wrapf(data.ErrUsage, err, "invalid hourly rate")
	}
	if !(rate > 0) || math.IsInf(rate, 0) {
		return 0, data.Errorf(data.ErrUsage, "invalid hourly rate - hourly rate must be positive")
	}
	return rate, nil
}

// Build sorts the employees by id, keeping file order for equal ids, and
// computes each salary as hours x rate. The input slice isn't modified.
func Build(source string, rate float64, employees []data.Employee) (*data.Report, error) {
	if len(employees) == 0 {
		return nil, data.NewError(data.ErrValidation, data.ErrNoValidRecords)
	}
	sorted := make([]data.Employee, len(employees))
	copy(sorted, employees)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EmpNo < sorted[j].EmpNo
	})
	rows := make([]data.ReportRow, 0, len(sorted))
	for _, e := range sorted {
		rows = append(rows, data.ReportRow{
			EmpNo:  e.EmpNo,
			Name:   e.Name,
			Hours:  e.Hours,
			Salary: e.Hours * rate,
		})
	}
	return &data.Report{
		Source: source,
		Rate:   rate,
		Rows:   rows,
	}, nil
}

// Generate reads every valid record from source and builds the report.
func (r *Reporter) Generate(ctx context.Context, source string, rate float64) (*data.Report, error) {
	employees, err := r.store.ReadAll(ctx, source)
	if err != nil {
		return nil, err
	}
	report, err := Build(source, rate, employees)
	if err != nil {
		return nil, err
	}
	r.Debug(ctx, "built report for %s: %d rows at rate %g", source, len(report.Rows), rate)
	return report, nil
}

func (r *Reporter) WriteReport(ctx context.Context, report *data.Report, path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "cannot create report file: %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = data.Wrapf(data.ErrIO, e, "error writing report file: %s", path)
		}
	}()
	writer := bufio.NewWriter(file)
	for _, line := range r.config.format.Lines(report) {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return data.Wrapf(data.ErrIO, err, "error writing report file: %s", path)
		}
	}
	if err := writer.Flush(); err != nil {
		return data.Wrapf(data.ErrIO, err, "error writing report file: %s", path)
	}
	r.Trace(ctx, "wrote %d report rows to %s", len(report.Rows), path)
	return nil
}

// Run generates the report for source and writes it to reportPath; nothing
// is written when source holds no valid records.
func (r *Reporter) Run(ctx context.Context, source, reportPath string, rate float64) (*data.Report, error) {
	if strings.TrimSpace(reportPath) == "" {
		return nil, data.Errorf(data.ErrUsage, "report filename cannot be empty")
	}
	if !(rate > 0) {
		return nil, data.Errorf(data.ErrUsage, "invalid hourly rate - hourly rate must be positive")
	}
	report, err := r.Generate(ctx, source, rate)
	if err != nil {
		return nil, err
	}
	if err := r.WriteReport(ctx, report, reportPath); err != nil {
		return nil, err
	}
	r.Info(ctx, "report successfully created: %s", reportPath)
	return report, nil
}

var _ internal.Configurer = (*Reporter)(nil)
