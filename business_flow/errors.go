package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Calculation errors
	ErrMaterialsRequired  = errors.New("materials are required")
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrInvalidPageSize    = errors.New("invalid page size")

	// Upload errors
	ErrFileRequired          = errors.New("file is required")
	ErrFileTooLarge          = errors.New("file is too large")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrInvalidFile           = errors.New("file could not be parsed")
	ErrMissingMaterialColumn = errors.New("no material type column found")
	ErrNoMaterialsInFile     = errors.New("no valid materials found in file")

	// AI errors
	ErrLCAResultsRequired = errors.New("lca results are required")
)

// BusinessError carries a stable machine code next to a human message
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

// BusinessErrorCode returns the code of the outermost BusinessError in err's chain
func BusinessErrorCode(err error) (string, bool) {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

func IsMaterialsRequired(err error) bool {
	return errors.Is(err, ErrMaterialsRequired)
}

func IsAssessmentNotFound(err error) bool {
	return errors.Is(err, ErrAssessmentNotFound)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsFileRequired(err error) bool {
	return errors.Is(err, ErrFileRequired)
}

func IsFileTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

func IsUnsupportedFileType(err error) bool {
	return errors.Is(err, ErrUnsupportedFileType)
}

func IsInvalidFile(err error) bool {
	return errors.Is(err, ErrInvalidFile)
}

func IsMissingMaterialColumn(err error) bool {
	return errors.Is(err, ErrMissingMaterialColumn)
}

func IsNoMaterialsInFile(err error) bool {
	return errors.Is(err, ErrNoMaterialsInFile)
}

func IsLCAResultsRequired(err error) bool {
	return errors.Is(err, ErrLCAResultsRequired)
}
