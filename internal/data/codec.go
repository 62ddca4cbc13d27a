package data

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Block layout, little-endian; it reproduces the padded C layout of the
// original record (int, char[10], double) so existing files stay readable.
const (
	offsetEmpNo   = 0
	offsetName    = 4
	offsetPadding = 14
	offsetHours   = 16

	lengthEmpNo   = 4
	lengthName    = 10
	lengthPadding = 2
	lengthHours   = 8

	// BlockSize is the size of one encoded employee; writer and reader must
	// agree on it or every record after the first is misread.
	BlockSize = offsetHours + lengthHours

	// NameCapacity is the size of the name buffer, one byte of which is
	// reserved for the terminator.
	NameCapacity = lengthName

	// MaxNameLength is the number of name bytes that survive encoding.
	MaxNameLength = NameCapacity - 1
)

var ByteOrder = binary.LittleEndian

// Encode serializes an employee into exactly BlockSize bytes. Names longer
// than MaxNameLength are truncated rather than rejected.
func Encode(e Employee) []byte {
	block := make([]byte, BlockSize)
	ByteOrder.PutUint32(block[offsetEmpNo:offsetEmpNo+lengthEmpNo], uint32(e.EmpNo))
	copy(block[offsetName:offsetName+MaxNameLength], TruncateName(e.Name))
	ByteOrder.PutUint64(block[offsetHours:offsetHours+lengthHours], math.Float64bits(e.Hours))
	return block
}

// Decode never fails: missing bytes read as zero and whatever comes out is
// left for the caller to check with IsValid.
func Decode(bytes []byte) Employee {
	block := make([]byte, BlockSize)
	copy(block, bytes)
	name := block[offsetName : offsetName+MaxNameLength]
	for i, b := range name {
		if b == 0 {
			name = name[:i]
			break
		}
	}
	return Employee{
		EmpNo: int32(ByteOrder.Uint32(block[offsetEmpNo : offsetEmpNo+lengthEmpNo])),
		Name:  string(name),
		Hours: math.Float64frombits(ByteOrder.Uint64(block[offsetHours : offsetHours+lengthHours])),
	}
}

// TruncateName returns the prefix of name that fits in the name buffer. When
// name is valid UTF-8 the cut is moved back so no rune is split.
func TruncateName(name string) string {
	if len(name) <= MaxNameLength {
		return name
	}
	truncated := name[:MaxNameLength]
	if utf8.ValidString(name) {
		for len(truncated) > 0 && !utf8.RuneStart(name[len(truncated)]) {
			truncated = truncated[:len(truncated)-1]
		}
	}
	return truncated
}
