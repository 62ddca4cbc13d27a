package sql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/cenkalti/backoff/v5"

	_ "github.com/go-sql-driver/mysql" //import for driver support
)

const (
	databaseIsolation = sql.LevelSerializable
	tableReports      = "reports"
)

// Sql keeps the rows of generated reports, keyed by the binary file they
// were generated from; a report written for a source replaces any earlier one.
type Sql interface {
	ReportWrite(ctx context.Context, report *data.Report) error
	ReportRead(ctx context.Context, source string) (*data.Report, error)
	ReportDelete(ctx context.Context, source string) error
}

type mySql struct {
	sync.RWMutex
	config struct {
		Hostname       string        `json:"hostname"`
		Port           string        `json:"port"`
		Username       string        `json:"username"`
		Password       string        `json:"password"`
		Database       string        `json:"database"`
		ConnectRetries uint          `json:"connect_retries"`
		ConnectTimeout time.Duration `json:"connect_timeout"`
		QueryTimeout   time.Duration `json:"query_timeout"`
	}
	*sql.DB
	utilities.Logger
	opened bool
}

func NewMySql(parameters ...any) interface {
	internal.Configurer
	internal.Opener
	Sql
} {
	m := &mySql{Logger: utilities.NewNopLogger()}
	for _, parameter := range parameters {
		switch v := parameter.(type) {
		case utilities.Logger:
			m.Logger = v
		}
	}
	return m
}

func (s *mySql) Configure(envs map[string]string) error {
	s.Lock()
	defer s.Unlock()

	s.config.Hostname = "localhost"
	s.config.Port = "3306"
	s.config.Database = "employees"
	s.config.ConnectRetries = 5
	s.config.ConnectTimeout = time.Second
	s.config.QueryTimeout = 10 * time.Second
	if databaseHost := envs["DATABASE_HOST"]; databaseHost != "" {
		s.config.Hostname = databaseHost
	}
	if databasePort := envs["DATABASE_PORT"]; databasePort != "" {
		s.config.Port = databasePort
	}
	if database := envs["DATABASE_NAME"]; database != "" {
		s.config.Database = database
	}
	if username := envs["DATABASE_USER"]; username != "" {
		s.config.Username = username
	}
	if password := envs["DATABASE_PASSWORD"]; password != "" {
		s.config.Password = password
	}
	if retries := envs["DATABASE_CONNECT_RETRIES"]; retries != "" {
		i, err := strconv.Atoi(retries)
		if err != nil || i <= 0 {
			return data.Errorf(data.ErrUsage, "invalid DATABASE_CONNECT_RETRIES %q", retries)
		}
		s.config.ConnectRetries = uint(i)
	}
	if timeout := envs["DATABASE_CONNECT_TIMEOUT"]; timeout != "" {
		i, err := strconv.Atoi(timeout)
		if err != nil || i <= 0 {
			return data.Errorf(data.ErrUsage, "invalid DATABASE_CONNECT_TIMEOUT %q", timeout)
		}
		s.config.ConnectTimeout = time.Duration(i) * time.Second
	}
	if timeout := envs["DATABASE_QUERY_TIMEOUT"]; timeout != "" {
		i, err := strconv.Atoi(timeout)
		if err != nil || i <= 0 {
			return data.Errorf(data.ErrUsage, "invalid DATABASE_QUERY_TIMEOUT %q", timeout)
		}
		s.config.QueryTimeout = time.Duration(i) * time.Second
	}
	return nil
}

func (s *mySql) Open(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if s.opened {
		return nil
	}
	dataSourceName := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?timeout=%s",
		s.config.Username, s.config.Password, s.config.Hostname,
		s.config.Port, s.config.Database, s.config.ConnectTimeout)
	db, err := sql.Open("mysql", dataSourceName)
	if err != nil {
		return data.Wrapf(data.ErrUsage, err, "invalid database configuration")
	}
	//KIM: the database is usually started alongside us, so the first
	// few pings are allowed to fail
	if _, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := db.PingContext(ctx); err != nil {
			s.Debug(ctx, "unable to ping database (%s:%s): %s",
				s.config.Hostname, s.config.Port, err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(s.config.ConnectRetries)); err != nil {
		_ = db.Close()
		return data.Wrapf(data.ErrIO, err, "unable to connect to database")
	}
	if err := createTable(ctx, db); err != nil {
		_ = db.Close()
		return data.Wrapf(data.ErrIO, err, "unable to create table %s", tableReports)
	}
	s.DB = db
	s.opened = true
	return nil
}

func (s *mySql) Close(ctx context.Context) error {
	s.Lock()
	defer s.Unlock()

	if !s.opened {
		return nil
	}
	if err := s.DB.Close(); err != nil {
		s.Error(ctx, "error while closing sql: %s", err)
	}
	s.opened = false
	return nil
}

func (s *mySql) ReportWrite(ctx context.Context, report *data.Report) error {
	s.RLock()
	defer s.RUnlock()

	if report == nil || report.Source == "" {
		return data.Errorf(data.ErrUsage, "report has no source")
	}
	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	tx, err := s.BeginTx(ctx, &sql.TxOptions{Isolation: databaseIsolation})
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "unable to start transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()
	query := fmt.Sprintf(`DELETE FROM %s WHERE source = ?;`, tableReports)
	if _, err := tx.ExecContext(ctx, query, report.Source); err != nil {
		return data.Wrapf(data.ErrIO, err, "unable to replace report for %s", report.Source)
	}
	if len(report.Rows) > 0 {
		query, args := reportInsert(report)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return data.Wrapf(data.ErrIO, err, "unable to write report for %s", report.Source)
		}
	}
	if err := tx.Commit(); err != nil {
		return data.Wrapf(data.ErrIO, err, "unable to commit report for %s", report.Source)
	}
	s.Trace(ctx, "wrote %d report rows for %s", len(report.Rows), report.Source)
	return nil
}

func (s *mySql) ReportRead(ctx context.Context, source string) (*data.Report, error) {
	s.RLock()
	defer s.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`SELECT emp_no, name, hours, rate, salary
		FROM %s WHERE source = ? ORDER BY position;`, tableReports)
	rows, err := s.QueryContext(ctx, query, source)
	if err != nil {
		return nil, data.Wrapf(data.ErrIO, err, "unable to read report for %s", source)
	}
	defer rows.Close()
	report := &data.Report{Source: source}
	for rows.Next() {
		row, rate, err := reportRowScan(rows.Scan)
		if err != nil {
			return nil, data.Wrapf(data.ErrIO, err, "unable to read report for %s", source)
		}
		report.Rate = rate
		report.Rows = append(report.Rows, *row)
	}
	if err := rows.Err(); err != nil {
		return nil, data.Wrapf(data.ErrIO, err, "unable to read report for %s", source)
	}
	if len(report.Rows) == 0 {
		return nil, data.Errorf(data.ErrNotFound, "report not found: %s", source)
	}
	return report, nil
}

func (s *mySql) ReportDelete(ctx context.Context, source string) error {
	s.RLock()
	defer s.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()
	query := fmt.Sprintf(`DELETE FROM %s WHERE source = ?;`, tableReports)
	result, err := s.ExecContext(ctx, query, source)
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "unable to delete report for %s", source)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "unable to delete report for %s", source)
	}
	if n == 0 {
		return data.Errorf(data.ErrNotFound, "report not found: %s", source)
	}
	return nil
}
