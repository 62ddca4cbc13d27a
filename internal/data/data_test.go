package data_test

import (
	"encoding/binary"
	"math"
	"os"
	"testing"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodec(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		for _, employee := range []data.Employee{
			{EmpNo: 1, Name: "John", Hours: 40.5},
			{EmpNo: 2, Name: "Alice", Hours: 35.0},
			{EmpNo: math.MaxInt32, Name: "123456789", Hours: 0},
			{EmpNo: -7, Name: "", Hours: -1.25},
		} {
			block := data.Encode(employee)
			assert.Len(t, block, data.BlockSize)
			assert.Equal(t, employee, data.Decode(block))
		}
	})
	t.Run("Truncation", func(t *testing.T) {
		employee := data.Employee{EmpNo: 4, Name: "Bartholomew", Hours: 12}
		decoded := data.Decode(data.Encode(employee))
		assert.Equal(t, "Bartholom", decoded.Name)
		assert.True(t, decoded.IsValid())

		//multi-byte runes aren't split
		decoded = data.Decode(data.Encode(data.Employee{EmpNo: 5, Name: "Александр", Hours: 1}))
		assert.Equal(t, "Алек", decoded.Name)
	})
	t.Run("Zero Block", func(t *testing.T) {
		employee := data.Decode(make([]byte, data.BlockSize))
		assert.False(t, employee.IsValid())
	})
	t.Run("Short Block", func(t *testing.T) {
		employee := data.Decode([]byte{1, 0, 0, 0, 'B', 'o', 'b'})
		assert.Equal(t, data.Employee{EmpNo: 1, Name: "Bob"}, employee)
	})
	t.Run("Original Layout", func(t *testing.T) {
		//int num; char name[10]; (2 bytes padding) double hours;
		block := make([]byte, 24)
		binary.LittleEndian.PutUint32(block[0:], 3)
		copy(block[4:], "Bob")
		block[14], block[15] = 0xCC, 0xCC
		binary.LittleEndian.PutUint64(block[16:], math.Float64bits(42.5))
		assert.Equal(t, 24, data.BlockSize)
		assert.Equal(t, data.Employee{EmpNo: 3, Name: "Bob", Hours: 42.5}, data.Decode(block))
	})
}

func TestValidity(t *testing.T) {
	assert.True(t, data.Employee{EmpNo: 1, Name: "Valid", Hours: 40}.IsValid())
	assert.True(t, data.Employee{EmpNo: 1, Name: "Zero", Hours: 0}.IsValid())
	assert.False(t, data.Employee{EmpNo: 0, Name: "Test", Hours: 40}.IsValid())
	assert.False(t, data.Employee{EmpNo: 1, Name: "", Hours: 40}.IsValid())
	assert.False(t, data.Employee{EmpNo: 1, Name: "Test", Hours: -10}.IsValid())
	assert.False(t, data.Employee{EmpNo: 1, Name: "Test", Hours: math.NaN()}.IsValid())
}

func TestEmployeesBinary(t *testing.T) {
	employees := data.Employees{
		{EmpNo: 1, Name: "John", Hours: 40.5},
		{EmpNo: 2, Name: "Alice", Hours: 35},
	}
	bytes, err := employees.MarshalBinary()
	assert.Nil(t, err)
	assert.Len(t, bytes, 2*data.BlockSize)

	//garbage between the two valid blocks is dropped
	corrupted := append(append(append([]byte{}, bytes[:data.BlockSize]...),
		make([]byte, data.BlockSize)...), bytes[data.BlockSize:]...)
	var employeesRead data.Employees
	err = employeesRead.UnmarshalBinary(corrupted)
	assert.Nil(t, err)
	assert.Equal(t, employees, employeesRead)

	employee := &data.Employee{}
	err = employee.UnmarshalBinary(bytes[:10])
	assert.True(t, errors.Is(err, data.ErrValidation))
	err = employee.UnmarshalBinary(bytes[data.BlockSize:])
	assert.Nil(t, err)
	assert.Equal(t, employees[1], *employee)
}

func TestErrors(t *testing.T) {
	err := data.Wrapf(data.ErrNotFound, os.ErrNotExist, "cannot open binary file: %s", "missing.bin")
	assert.True(t, errors.Is(err, data.ErrNotFound))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, errors.Is(err, data.ErrIO))
	assert.Contains(t, err.Error(), "missing.bin")
	assert.Contains(t, err.Error(), os.ErrNotExist.Error())

	err = data.NewError(data.ErrValidation, data.ErrNoValidRecords)
	assert.True(t, errors.Is(err, data.ErrNoValidRecords))
	assert.True(t, errors.Is(err, data.ErrValidation))
	assert.Nil(t, data.NewError(data.ErrIO, nil))
	assert.Nil(t, data.Wrapf(data.ErrIO, nil, "nothing"))
}
