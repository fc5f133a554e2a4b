// Package errors defines the error taxonomy shared by the build and query
// commands and maps each kind onto a process exit code.
package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	ErrFormat        = errors.New("malformed input")
	ErrEncoding      = errors.New("encoding error")
	ErrOverflow      = errors.New("value exceeds format limit")
	ErrTruncatedData = errors.New("truncated data")
	ErrInvalidInput  = errors.New("invalid input")
)

// Exit codes follow the BSD sysexits convention.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 64
	ExitDataErr = 65
	ExitNoInput = 66
)

type AppError struct {
	Err     error
	Message string
	Code    int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Newf(sentinel error, code int, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	}
}

func Format(format string, args ...any) *AppError {
	return Newf(ErrFormat, ExitDataErr, format, args...)
}

func Encoding(format string, args ...any) *AppError {
	return Newf(ErrEncoding, ExitDataErr, format, args...)
}

func Overflow(format string, args ...any) *AppError {
	return Newf(ErrOverflow, ExitDataErr, format, args...)
}

func Truncated(format string, args ...any) *AppError {
	return Newf(ErrTruncatedData, ExitNoInput, format, args...)
}

func InvalidInput(format string, args ...any) *AppError {
	return Newf(ErrInvalidInput, ExitUsage, format, args...)
}

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ExitNoInput
	case errors.Is(err, ErrFormat), errors.Is(err, ErrEncoding), errors.Is(err, ErrOverflow):
		return ExitDataErr
	case errors.Is(err, ErrTruncatedData):
		return ExitNoInput
	case errors.Is(err, ErrInvalidInput):
		return ExitUsage
	default:
		return ExitFailure
	}
}
