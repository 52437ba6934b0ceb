package csvimport

import (
	"errors"
	"fmt"

	"github.com/filterdesk/backend/internal/domain/shared"
)

// Import error codes, rendered by the HTTP layer with the ERR_ prefix
const (
	CodeImportParse       = "IMPORT_PARSE"
	CodeImportEmptyFile   = "IMPORT_EMPTY_FILE"
	CodeImportTooManyRows = "IMPORT_TOO_MANY_ROWS"
	CodeImportFormat      = "IMPORT_UNSUPPORTED_FORMAT"
)

// Common import errors
var (
	// ErrEmptyFile is returned when the file has no header or no data rows
	ErrEmptyFile = shared.NewDomainError(CodeImportEmptyFile, "The uploaded file is empty")

	// ErrUnsupportedFormat is returned for extensions other than csv, txt and xlsx
	ErrUnsupportedFormat = shared.NewDomainError(CodeImportFormat, "Unsupported file format, use .csv or .xlsx")
)

// NewParseError reports the first error the parser hit
func NewParseError(err error) *shared.DomainError {
	var pe *csvParseError
	if errors.As(err, &pe) {
		return shared.NewDomainError(CodeImportParse, fmt.Sprintf("Could not parse line %d: %v", pe.line, pe.err))
	}
	return shared.NewDomainError(CodeImportParse, fmt.Sprintf("Could not parse file: %v", err))
}

// NewTooManyRowsError is returned when the file exceeds the configured row limit
func NewTooManyRowsError(limit int) *shared.DomainError {
	return shared.NewDomainError(CodeImportTooManyRows, fmt.Sprintf("The file exceeds the limit of %d rows", limit))
}

type csvParseError struct {
	line int
	err  error
}

func (e *csvParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.line, e.err)
}

func (e *csvParseError) Unwrap() error {
	return e.err
}
