package store

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"
)

const defaultFilePermissions os.FileMode = 0o644

// Store is a flat file of fixed-size employee blocks with no header; the
// number of records is the file size divided by data.BlockSize.
type Store interface {
	Append(ctx context.Context, path string, employee data.Employee) error
	ReadAll(ctx context.Context, path string) ([]data.Employee, error)
	TruncateOrCreate(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	Snapshot(ctx context.Context, path string) (string, error)
}

type fileStore struct {
	config struct {
		filePermissions os.FileMode
	}
	logger  utilities.Logger
	counter utilities.Counter
}

func NewFile(parameters ...any) interface {
	internal.Configurer
	Store
} {
	s := &fileStore{logger: utilities.NewNopLogger()}
	s.config.filePermissions = defaultFilePermissions
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case utilities.Logger:
			s.logger = p
		case utilities.Counter:
			s.counter = p
		}
	}
	return s
}

func (s *fileStore) Configure(envs map[string]string) error {
	if filePermissions, ok := envs["STORE_FILE_PERMISSIONS"]; ok && filePermissions != "" {
		i, err := strconv.ParseUint(filePermissions, 8, 32)
		if err != nil {
			return data.Wrapf(data.ErrUsage, err, "invalid STORE_FILE_PERMISSIONS %q", filePermissions)
		}
		s.config.filePermissions = os.FileMode(i)
	}
	return nil
}

func (s *fileStore) Append(ctx context.Context, path string, employee data.Employee) (err error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, s.config.filePermissions)
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "cannot open binary file for writing: %s", path)
	}
	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = data.Wrapf(data.ErrIO, e, "error writing to file: %s", path)
		}
	}()
	//KIM: the block goes out in a single write so a record is either fully
	// written or (on a crash) left as a partial block the reader ignores
	block := data.Encode(employee)
	n, err := file.Write(block)
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "error writing to file: %s", path)
	}
	if n != len(block) {
		return data.Wrapf(data.ErrIO, io.ErrShortWrite, "error writing to file: %s (%d of %d bytes)",
			path, n, len(block))
	}
	s.logger.Trace(ctx, "appended employee %d to %s", employee.EmpNo, path)
	return nil
}

func (s *fileStore) ReadAll(ctx context.Context, path string) ([]data.Employee, error) {
	var employees []data.Employee
	var valid, skipped int

	file, err := os.Open(path)
	if err != nil {
		return nil, data.Wrapf(data.ErrNotFound, err, "cannot open binary file: %s", path)
	}
	defer file.Close()
	reader := bufio.NewReader(file)
	block := make([]byte, data.BlockSize)
	for {
		if _, err := io.ReadFull(reader, block); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return nil, data.Wrapf(data.ErrIO, err, "error reading binary file: %s", path)
		}
		employee := data.Decode(block)
		if !employee.IsValid() {
			skipped++
			continue
		}
		employees = append(employees, employee)
		valid++
	}
	if s.counter != nil {
		s.counter.IncrementValid(path, valid)
		s.counter.IncrementSkipped(path, skipped)
	}
	s.logger.Trace(ctx, "read %d valid employees from %s (%d blocks skipped)",
		valid, path, skipped)
	return employees, nil
}

func (s *fileStore) TruncateOrCreate(ctx context.Context, path string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.config.filePermissions)
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "cannot create file: %s", path)
	}
	if err := file.Close(); err != nil {
		return data.Wrapf(data.ErrIO, err, "cannot create file: %s", path)
	}
	s.logger.Debug(ctx, "created empty binary file: %s", path)
	return nil
}

func (s *fileStore) Exists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	default:
		return false, data.Wrapf(data.ErrIO, err, "cannot check file: %s", path)
	case err == nil:
		if info.IsDir() {
			return false, data.Errorf(data.ErrUsage, "%s is a directory", path)
		}
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	}
}

func (s *fileStore) Snapshot(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", data.Wrapf(data.ErrNotFound, err, "cannot open binary file: %s", path)
	}
	return fmt.Sprintf("%s:%d:%d", path, info.Size(), info.ModTime().UnixNano()), nil
}
