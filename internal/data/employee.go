package data

import (
	"encoding/json"
	"fmt"
)

// Employee is the only entity stored in a binary record file, see codec.go
// for its on-disk layout.
type Employee struct {
	EmpNo int32   `json:"emp_no"`
	Name  string  `json:"name"`
	Hours float64 `json:"hours"`
}

// IsValid reports whether a (possibly decoded) employee is usable; anything
// else is treated as a corrupt or partially written block and skipped.
func (e Employee) IsValid() bool {
	//KIM: hours is compared this way so NaN is invalid too
	return e.EmpNo > 0 && e.Hours >= 0 && e.Name != ""
}

func (e Employee) String() string {
	return fmt.Sprintf("%d %s %g", e.EmpNo, e.Name, e.Hours)
}

func (e *Employee) MarshalBinary() ([]byte, error) {
	return Encode(*e), nil
}

func (e *Employee) UnmarshalBinary(bytes []byte) error {
	if len(bytes) != BlockSize {
		return Errorf(ErrValidation, "employee block must be %d bytes; got %d",
			BlockSize, len(bytes))
	}
	*e = Decode(bytes)
	return nil
}

// Employees is an ordered list of employees; it marshals to the same block
// format as the store file so caches hold exactly what was read from disk.
type Employees []Employee

func (e *Employees) MarshalBinary() ([]byte, error) {
	bytes := make([]byte, 0, len(*e)*BlockSize)
	for _, employee := range *e {
		bytes = append(bytes, Encode(employee)...)
	}
	return bytes, nil
}

func (e *Employees) UnmarshalBinary(bytes []byte) error {
	employees := make(Employees, 0, len(bytes)/BlockSize)
	for offset := 0; offset+BlockSize <= len(bytes); offset += BlockSize {
		if employee := Decode(bytes[offset : offset+BlockSize]); employee.IsValid() {
			employees = append(employees, employee)
		}
	}
	*e = employees
	return nil
}

func (e Employees) MarshalJSON() ([]byte, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Employee(e))
}
