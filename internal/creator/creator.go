package creator

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/antonio-alexander/go-employee-pipeline/internal"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/pkg/errors"
)

// Overwrite policies for an existing binary file.
const (
	OverwriteAsk    string = "ask"
	OverwriteAlways string = "always"
	OverwriteNever  string = "never"
)

type Creator struct {
	config struct {
		overwrite string
	}
	store    store.Store
	prompter *utilities.Prompter
	utilities.Logger
}

func NewCreator(parameters ...any) *Creator {
	c := &Creator{Logger: utilities.NewNopLogger()}
	c.config.overwrite = OverwriteAsk
	for _, parameter := range parameters {
		switch p := parameter.(type) {
		case store.Store:
			c.store = p
		case *utilities.Prompter:
			c.prompter = p
		case utilities.Logger:
			c.Logger = p
		}
	}
	if c.prompter == nil {
		c.prompter = utilities.NewPrompter(nil, nil)
	}
	return c
}

func (c *Creator) Configure(envs map[string]string) error {
	if overwrite, ok := envs["CREATOR_OVERWRITE"]; ok && overwrite != "" {
		switch overwrite = strings.ToLower(overwrite); overwrite {
		default:
			return data.Errorf(data.ErrUsage, "unsupported CREATOR_OVERWRITE: %s", overwrite)
		case OverwriteAsk, OverwriteAlways, OverwriteNever:
			c.config.overwrite = overwrite
		}
	}
	return nil
}

// ParseCount validates the record count argument.
func ParseCount(s string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, data.Wrapf(data.ErrUsage, err, "invalid record count")
	}
	if count <= 0 {
		return 0, data.Errorf(data.ErrUsage, "invalid record count - record count must be positive")
	}
	return count, nil
}

func (c *Creator) confirmOverwrite(ctx context.Context, path string) error {
	exists, err := c.store.Exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	switch c.config.overwrite {
	case OverwriteAlways:
		c.Debug(ctx, "overwriting existing file: %s", path)
		return nil
	case OverwriteNever:
		return data.NewError(data.ErrUsage, errors.Wrapf(data.ErrOverwriteRefused, "file %s already exists", path))
	}
	confirmed, err := c.prompter.Confirm("File %s already exists. Overwrite?", path)
	if err != nil {
		return data.Wrapf(data.ErrIO, err, "error reading confirmation")
	}
	if !confirmed {
		return data.NewError(data.ErrUsage, data.ErrOverwriteRefused)
	}
	return nil
}

// Create interactively collects count valid records and appends each one to
// the file at path as soon as it's accepted. An invalid entry is reported and
// the same slot is prompted for again, without limit.
func (c *Creator) Create(ctx context.Context, path string, count int) (int, error) {
	var written int

	if count <= 0 {
		return 0, data.Errorf(data.ErrUsage, "invalid record count - record count must be positive")
	}
	if strings.TrimSpace(path) == "" {
		return 0, data.Errorf(data.ErrUsage, "binary filename cannot be empty")
	}
	if err := c.confirmOverwrite(ctx, path); err != nil {
		return 0, err
	}
	if err := c.store.TruncateOrCreate(ctx, path); err != nil {
		return 0, err
	}
	c.prompter.Printf("Enter %d employee records:\n", count)
	c.prompter.Println("Format: <id> <name> <hours>")
	for written < count {
		if err := ctx.Err(); err != nil {
			return written, data.Wrapf(data.ErrIO, err, "interrupted after %d of %d records", written, count)
		}
		c.prompter.Printf("Record %d: ", written+1)
		line, err := c.prompter.ReadLine()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return written, data.Wrapf(data.ErrIO, err, "input closed after %d of %d records", written, count)
		}
		employee, err := ParseEmployee(line)
		if err != nil {
			c.prompter.Printf("Error: %s. Please try again.\n", err)
			c.Debug(ctx, "rejected record %d: %s", written+1, err)
			continue
		}
		if err := c.store.Append(ctx, path, employee); err != nil {
			return written, err
		}
		written++
		c.Trace(ctx, "wrote record %d of %d: %s", written, count, employee)
	}
	c.prompter.Printf("Successfully created %s with %d records.\n", path, written)
	c.Info(ctx, "created %s with %d records", path, written)
	return written, nil
}

var _ internal.Configurer = (*Creator)(nil)
