package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

func createTable(ctx context.Context, db *sql.DB) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		source VARCHAR(255) NOT NULL,
		position INT NOT NULL,
		emp_no INT NOT NULL,
		name VARCHAR(16) NOT NULL,
		hours DOUBLE NOT NULL,
		rate DOUBLE NOT NULL,
		salary DOUBLE NOT NULL,
		PRIMARY KEY (source, position)
	);`, tableReports)
	_, err := db.ExecContext(ctx, query)
	return err
}

// reportInsert builds a single multi-row insert; position keeps the
// report's sort order since emp_no isn't unique.
func reportInsert(report *data.Report) (string, []any) {
	var args []any
	var values []string

	for position, row := range report.Rows {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, report.Source, position, row.EmpNo,
			row.Name, row.Hours, report.Rate, row.Salary)
	}
	query := fmt.Sprintf(`INSERT INTO %s (source, position, emp_no, name,
		hours, rate, salary) VALUES %s;`, tableReports, strings.Join(values, ","))
	return query, args
}

func reportRowScan(scanFx func(...any) error) (*data.ReportRow, float64, error) {
	var rate float64

	row := new(data.ReportRow)
	if err := scanFx(
		&row.EmpNo,
		&row.Name,
		&row.Hours,
		&rate,
		&row.Salary,
	); err != nil {
		return nil, 0, err
	}
	return row, rate, nil
}
