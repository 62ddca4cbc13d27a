package creator_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antonio-alexander/go-employee-pipeline/internal/creator"
	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
	"github.com/antonio-alexander/go-employee-pipeline/internal/store"
	"github.com/antonio-alexander/go-employee-pipeline/internal/utilities"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type creatorTest struct {
	store  store.Store
	output *bytes.Buffer
	*creator.Creator
}

func newCreatorTest(t *testing.T, input string, envs map[string]string) *creatorTest {
	output := &bytes.Buffer{}
	s := store.NewFile()
	c := creator.NewCreator(s, utilities.NewPrompter(strings.NewReader(input), output))
	if err := c.Configure(envs); err != nil {
		assert.FailNow(t, "unable to configure creator", err)
	}
	return &creatorTest{
		store:   s,
		output:  output,
		Creator: c,
	}
}

func TestParseEmployee(t *testing.T) {
	employee, err := creator.ParseEmployee("  1 John 40.5 ")
	assert.Nil(t, err)
	assert.Equal(t, data.Employee{EmpNo: 1, Name: "John", Hours: 40.5}, employee)

	for line, message := range map[string]string{
		"":                 "invalid record format",
		"1 John":           "invalid record format",
		"1 John Smith 40":  "invalid record format",
		"one John 40":      "invalid id format",
		"1 John forty":     "invalid hours format",
		"0 John 40":        "id must be positive",
		"-3 John 40":       "id must be positive",
		"1 Bartholomew 40": "name must be less than 10 characters",
		"1 John -1":        "hours cannot be negative",
		"1 John NaN":       "hours cannot be negative",
	} {
		_, err := creator.ParseEmployee(line)
		if assert.NotNil(t, err, line) {
			assert.True(t, errors.Is(err, data.ErrValidation), line)
			assert.Contains(t, err.Error(), message, line)
		}
	}
}

func TestParseCount(t *testing.T) {
	count, err := creator.ParseCount("2")
	assert.Nil(t, err)
	assert.Equal(t, 2, count)
	for _, s := range []string{"", "0", "-1", "two", "1.5"} {
		_, err := creator.ParseCount(s)
		assert.True(t, errors.Is(err, data.ErrUsage), s)
	}
}

func TestCreate(t *testing.T) {
	t.Run("Two Records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "employees.bin")
		c := newCreatorTest(t, "1 John 40.5\n2 Alice 35.0\n", nil)

		written, err := c.Create(context.TODO(), path, 2)
		assert.Nil(t, err)
		assert.Equal(t, 2, written)
		employees, err := c.store.ReadAll(context.TODO(), path)
		assert.Nil(t, err)
		assert.Equal(t, []data.Employee{
			{EmpNo: 1, Name: "John", Hours: 40.5},
			{EmpNo: 2, Name: "Alice", Hours: 35},
		}, employees)
		assert.Contains(t, c.output.String(), "Record 2: ")
	})
	t.Run("Retry Invalid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "employees.bin")
		input := strings.Join([]string{
			"x John 40",
			"0 John 40",
			"1 John -5",
			"1 John 40",
		}, "\n")
		c := newCreatorTest(t, input, nil)

		written, err := c.Create(context.TODO(), path, 1)
		assert.Nil(t, err)
		assert.Equal(t, 1, written)
		employees, err := c.store.ReadAll(context.TODO(), path)
		assert.Nil(t, err)
		assert.Equal(t, []data.Employee{{EmpNo: 1, Name: "John", Hours: 40}}, employees)
		assert.Equal(t, 3, strings.Count(c.output.String(), "Please try again."))
		assert.Contains(t, c.output.String(), "Record 1: ")
		assert.NotContains(t, c.output.String(), "Record 2: ")
	})
	t.Run("Input Closed", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "employees.bin")
		c := newCreatorTest(t, "1 John 40\n", nil)

		written, err := c.Create(context.TODO(), path, 3)
		assert.True(t, errors.Is(err, data.ErrIO))
		assert.Equal(t, 1, written)
		//accepted records are already on disk
		employees, err := c.store.ReadAll(context.TODO(), path)
		assert.Nil(t, err)
		assert.Len(t, employees, 1)
	})
	t.Run("Invalid Count", func(t *testing.T) {
		c := newCreatorTest(t, "", nil)
		_, err := c.Create(context.TODO(), filepath.Join(t.TempDir(), "x.bin"), 0)
		assert.True(t, errors.Is(err, data.ErrUsage))
	})
}

func TestOverwrite(t *testing.T) {
	ctx := context.TODO()
	existing := data.Employee{EmpNo: 9, Name: "Old", Hours: 1}
	newExisting := func(t *testing.T) string {
		path := filepath.Join(t.TempDir(), "employees.bin")
		err := store.NewFile().Append(ctx, path, existing)
		if !assert.Nil(t, err) {
			assert.FailNow(t, "unable to seed file")
		}
		return path
	}

	t.Run("Confirmed", func(t *testing.T) {
		path := newExisting(t)
		c := newCreatorTest(t, "y\n1 John 40\n", nil)
		_, err := c.Create(ctx, path, 1)
		assert.Nil(t, err)
		employees, err := c.store.ReadAll(ctx, path)
		assert.Nil(t, err)
		assert.Equal(t, []data.Employee{{EmpNo: 1, Name: "John", Hours: 40}}, employees)
	})
	t.Run("Refused", func(t *testing.T) {
		path := newExisting(t)
		c := newCreatorTest(t, "n\n1 John 40\n", nil)
		_, err := c.Create(ctx, path, 1)
		assert.True(t, errors.Is(err, data.ErrOverwriteRefused))
		employees, err := c.store.ReadAll(ctx, path)
		assert.Nil(t, err)
		assert.Equal(t, []data.Employee{existing}, employees)
	})
	t.Run("Always", func(t *testing.T) {
		path := newExisting(t)
		c := newCreatorTest(t, "1 John 40\n", map[string]string{"CREATOR_OVERWRITE": "always"})
		_, err := c.Create(ctx, path, 1)
		assert.Nil(t, err)
	})
	t.Run("Never", func(t *testing.T) {
		path := newExisting(t)
		c := newCreatorTest(t, "y\n1 John 40\n", map[string]string{"CREATOR_OVERWRITE": "never"})
		_, err := c.Create(ctx, path, 1)
		assert.True(t, errors.Is(err, data.ErrOverwriteRefused))
	})
	t.Run("Unsupported", func(t *testing.T) {
		c := creator.NewCreator(store.NewFile())
		err := c.Configure(map[string]string{"CREATOR_OVERWRITE": "sometimes"})
		assert.True(t, errors.Is(err, data.ErrUsage))
	})
}
