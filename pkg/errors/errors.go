package errors

import (
	"errors"
	"fmt"
)

var (
	ErrUsage        = errors.New("usage error")
	ErrIO           = errors.New("i/o failure")
	ErrInvalidInput = errors.New("invalid input")
	ErrCorpusSealed = errors.New("corpus is sealed")
	ErrCorpusOpen   = errors.New("corpus is still accepting documents")
	ErrInvariant    = errors.New("corpus invariant violated")
	ErrExport       = errors.New("export failed")
)

// Process exit statuses returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type AppError struct {
	Err      error
	Message  string
	ExitCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, exitCode int, message string) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  message,
		ExitCode: exitCode,
	}
}

func Newf(sentinel error, exitCode int, format string, args ...any) *AppError {
	return &AppError{
		Err:      sentinel,
		Message:  fmt.Sprintf(format, args...),
		ExitCode: exitCode,
	}
}

// Is and As re-export the standard helpers so callers importing this
// package under its own name do not need a second errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ExitCode
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsage
	default:
		return ExitFailure
	}
}
