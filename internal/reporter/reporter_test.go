package reporter_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/reporter"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type reporterTest struct {
	store store.Store
	dir   string
	*reporter.Reporter
}

func newReporterTest(t *testing.T, envs map[string]string) *reporterTest {
	s := store.NewFile()
	r := reporter.NewReporter(s)
	if err := r.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure reporter", err)
	}
	return &reporterTest{
		store:    s,
		dir:      t.TempDir(),
		Reporter: r,
	}
}

func (r *reporterTest) seed(t *testing.T, name string, employees ...data.Employee) string {
	path := filepath.Join(r.dir, name)
	err := r.store.TruncateOrCreate(context.TODO(), path)
	assert.Nil(t, err)
	for _, employee := range employees {
		err := r.store.Append(context.TODO(), path, employee)
		assert.Nil(t, err)
	}
	return path
}

func readLines(t *testing.T, path string) []string {
	bytes, err := os.ReadFile(path)
	if !assert.Nil(t, err) {
		assert.FailNow(t, "unable to read report")
	}
	return strings.Split(strings.TrimSuffix(string(bytes), "\n"), "\n")
}

func TestBuild(t *testing.T) {
	t.Run("Sort", func(t *testing.T) {
		var employees []data.Employee
		for _, id := range []int32{3, 1, 2, 5, 4} {
			employees = append(employees, data.Employee{EmpNo: id, Name: "E", Hours: float64(id)})
		}
		report, err := reporter.Build("employees.bin", 2, employees)
		assert.Nil(t, err)
		var ids []int32
		for _, row := range report.Rows {
			ids = append(ids, row.EmpNo)
			assert.Equal(t, row.Hours*2, row.Salary)
		}
		assert.Equal(t, []int32{1, 2, 3, 4, 5}, ids)
		//input order is left alone
		assert.Equal(t, int32(3), employees[0].EmpNo)
	})
	t.Run("Stable", func(t *testing.T) {
		report, err := reporter.Build("employees.bin", 1, []data.Employee{
			{EmpNo: 2, Name: "Second", Hours: 1},
			{EmpNo: 1, Name: "First", Hours: 1},
			{EmpNo: 2, Name: "Third", Hours: 1},
		})
		assert.Nil(t, err)
		assert.Equal(t, "First", report.Rows[0].Name)
		assert.Equal(t, "Second", report.Rows[1].Name)
		assert.Equal(t, "Third", report.Rows[2].Name)
	})
	t.Run("Salary", func(t *testing.T) {
		report, err := reporter.Build("employees.bin", 10.0, []data.Employee{{EmpNo: 1, Name: "John", Hours: 40.5}})
		assert.Nil(t, err)
		assert.Equal(t, 405.0, report.Rows[0].Salary)
		format, err := reporter.FormatFor(reporter.LanguageEnglish)
		assert.Nil(t, err)
		assert.Equal(t, "1, John, 40.5, 405", format.Row(report.Rows[0]))
	})
	t.Run("Empty", func(t *testing.T) {
		_, err := reporter.Build("employees.bin", 10.0, nil)
		assert.True(t, errors.Is(err, data.ErrNoValidRecords))
	})
}

func TestFormat(t *testing.T) {
	format, err := reporter.FormatFor("ru")
	assert.Nil(t, err)
	assert.Equal(t, []string{
		"Отчет по файлу «employees.bin» :",
		"Номер сотрудника, имя сотрудника, часы, зарплата",
	}, format.Header("employees.bin"))
	assert.Equal(t, "0.333333", format.Float(1.0/3))
	assert.Equal(t, "1e+06", format.Float(1000000))

	_, err = reporter.FormatFor("de")
	assert.True(t, errors.Is(err, data.ErrUsage))

	r := reporter.NewReporter(store.NewFile())
	err = r.Configure(map[string]string{"REPORT_PRECISION": "10"})
	assert.Nil(t, err)
	assert.Equal(t, "1000000", r.Format().Float(1000000))
	err = r.Configure(map[string]string{"REPORT_PRECISION": "-1"})
	assert.True(t, errors.Is(err, data.ErrUsage))
}

func TestParseRate(t *testing.T) {
	rate, err := reporter.ParseRate("10.0")
	assert.Nil(t, err)
	assert.Equal(t, 10.0, rate)
	for _, s := range []string{"", "0", "-5", "ten", "NaN", "Inf"} {
		_, err := reporter.ParseRate(s)
		assert.True(t, errors.Is(err, data.ErrUsage), s)
	}
}

func TestRun(t *testing.T) {
	t.Run("Report", func(t *testing.T) {
		r := newReporterTest(t, nil)
		source := r.seed(t, "employees.bin",
			data.Employee{EmpNo: 2, Name: "Alice", Hours: 35.0},
			data.Employee{EmpNo: 1, Name: "John", Hours: 40.5},
		)
		reportPath := filepath.Join(r.dir, "report.txt")

		report, err := r.Run(context.TODO(), source, reportPath, 10.0)
		assert.Nil(t, err)
		assert.Len(t, report.Rows, 2)
		lines := readLines(t, reportPath)
		assert.Equal(t, []string{
			"Report for file \"" + source + "\":",
			"Employee ID, Employee name, Hours, Salary",
			"1, John, 40.5, 405",
			"2, Alice, 35, 350",
		}, lines)
	})
	t.Run("No Valid Records", func(t *testing.T) {
		r := newReporterTest(t, nil)
		source := r.seed(t, "invalid.bin", data.Employee{EmpNo: 0, Name: "Nobody", Hours: 1})
		reportPath := filepath.Join(r.dir, "report.txt")

		_, err := r.Run(context.TODO(), source, reportPath, 10.0)
		assert.True(t, errors.Is(err, data.ErrNoValidRecords))
		_, err = os.Stat(reportPath)
		assert.True(t, os.IsNotExist(err))
	})
	t.Run("Missing Source", func(t *testing.T) {
		r := newReporterTest(t, nil)
		_, err := r.Run(context.TODO(), filepath.Join(r.dir, "missing.bin"), filepath.Join(r.dir, "report.txt"), 10.0)
		assert.True(t, errors.Is(err, data.ErrNotFound))
	})
	t.Run("Report Not Writable", func(t *testing.T) {
		r := newReporterTest(t, nil)
		source := r.seed(t, "employees.bin", data.Employee{EmpNo: 1, Name: "John", Hours: 40.5})
		_, err := r.Run(context.TODO(), source, filepath.Join(r.dir, "nope", "report.txt"), 10.0)
		assert.True(t, errors.Is(err, data.ErrIO))
	})
	t.Run("Russian", func(t *testing.T) {
		r := newReporterTest(t, map[string]string{"REPORT_LANGUAGE": "ru"})
		source := r.seed(t, "employees.bin", data.Employee{EmpNo: 1, Name: "Иван", Hours: 8})
		reportPath := filepath.Join(r.dir, "report.txt")

		_, err := r.Run(context.TODO(), source, reportPath, 2.5)
		assert.Nil(t, err)
		lines := readLines(t, reportPath)
		assert.Equal(t, "Отчет по файлу «"+source+"» :", lines[0])
		assert.Equal(t, "1, Иван, 8, 20", lines[2])
	})
}
