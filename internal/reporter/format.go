package reporter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

const (
	LanguageEnglish string = "en"
	LanguageRussian string = "ru"

	defaultPrecision int = 6
)

// Format holds everything that affects how a report is rendered; it's passed
// explicitly instead of relying on process-wide locale state.
type Format struct {
	Language  string
	Banner    string // fmt format with a single %s for the source file
	Columns   string
	Separator string
	Precision int // significant digits, like the default iostream precision
}

func FormatFor(language string) (Format, error) {
	format := Format{
		Language:  LanguageEnglish,
		Banner:    "Report for file \"%s\":",
		Columns:   "Employee ID, Employee name, Hours, Salary",
		Separator: ", ",
		Precision: defaultPrecision,
	}
	switch strings.ToLower(language) {
	default:
		return Format{}, data.Errorf(data.ErrUsage, "unsupported report language: %s", language)
	case "", LanguageEnglish:
	case LanguageRussian:
		format.Language = LanguageRussian
		format.Banner = "Отчет по файлу «%s» :"
		format.Columns = "Номер сотрудника, имя сотрудника, часы, зарплата"
	}
	return format, nil
}

func (f Format) Float(v float64) string {
	return strconv.FormatFloat(v, 'g', f.Precision, 64)
}

func (f Format) Header(source string) []string {
	return []string{fmt.Sprintf(f.Banner, source), f.Columns}
}

func (f Format) Row(row data.ReportRow) string {
	return strings.Join([]string{
		strconv.FormatInt(int64(row.EmpNo), 10),
		row.Name,
		f.Float(row.Hours),
		f.Float(row.Salary),
	}, f.Separator)
}

// Lines renders the complete report: banner, column header, then one line
// per row in the order given.
func (f Format) Lines(report *data.Report) []string {
	lines := f.Header(report.Source)
	for _, row := range report.Rows {
		lines = append(lines, f.Row(row))
	}
	return lines
}
