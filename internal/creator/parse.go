package creator

import (
	"strconv"
	"strings"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

// ParseEmployee parses one "<id> <name> <hours>" line and validates it; the
// returned error names the constraint that was violated.
func ParseEmployee(line string) (data.Employee, error) {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return data.Employee{}, data.Errorf(data.ErrValidation,
			"invalid record format, expected: <id> <name> <hours>")
	}
	empNo, err := strconv.ParseInt(fields[0], 10, 32)
	if err != nil {
		return data.Employee{}, data.Errorf(data.ErrValidation,
			"invalid id format, please enter a number")
	}
	hours, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return data.Employee{}, data.Errorf(data.ErrValidation,
			"invalid hours format, please enter a number")
	}
	employee := data.Employee{
		EmpNo: int32(empNo),
		Name:  fields[1],
		Hours: hours,
	}
	if err := Validate(employee); err != nil {
		return data.Employee{}, err
	}
	return employee, nil
}

// Validate checks the record invariant plus the input-only rule that a name
// must fit the name buffer without truncation.
func Validate(employee data.Employee) error {
	switch {
	case employee.EmpNo <= 0:
		return data.Errorf(data.ErrValidation, "id must be positive")
	case employee.Name == "":
		return data.Errorf(data.ErrValidation, "name cannot be empty")
	case len(employee.Name) > data.MaxNameLength:
		return data.Errorf(data.ErrValidation, "name must be less than %d characters",
			data.NameCapacity)
	case !(employee.Hours >= 0):
		return data.Errorf(data.ErrValidation, "hours cannot be negative")
	}
	return nil
}
