package orchestrator

import (
	"strings"
	"unicode"

	"github.com/antonio-alexander/go-employee-pipeline/internal/data"
)

const (
	maxFilenameLength int    = 255
	invalidCharacters string = `:*?"<>|`
)

// ValidateFilename rejects names the creator or reporter couldn't create on
// common filesystems. Path separators are allowed so files can live in other
// directories.
func ValidateFilename(filename string) error {
	switch {
	case strings.TrimSpace(filename) == "":
		return data.Errorf(data.ErrValidation, "filename cannot be empty")
	case len(filename) > maxFilenameLength:
		return data.Errorf(data.ErrValidation, "filename is too long (max %d characters)", maxFilenameLength)
	}
	for _, r := range filename {
		if strings.ContainsRune(invalidCharacters, r) || unicode.IsControl(r) {
			return data.Errorf(data.ErrValidation, "filename contains invalid character: %q", r)
		}
	}
	return nil
}
