package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/lifequest/internal/logger"
)

var (
	// ErrNotFound is returned when the requested record does not exist
	ErrNotFound = stderrors.New("not found")
	// ErrPreconditionFailed is returned when an operation is rejected because
	// the current state does not allow it (unavailable, out of stock, insufficient balance)
	ErrPreconditionFailed = stderrors.New("precondition failed")
	// ErrInvalidInput is returned for malformed or out-of-range arguments
	ErrInvalidInput = stderrors.New("invalid input")
)

// NotFoundf wraps ErrNotFound with a formatted message
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// PreconditionFailedf wraps ErrPreconditionFailed with a formatted message
func PreconditionFailedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPreconditionFailed, fmt.Sprintf(format, args...))
}

// InvalidInputf wraps ErrInvalidInput with a formatted message
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool { return stderrors.Is(err, ErrNotFound) }

// IsPreconditionFailed reports whether err wraps ErrPreconditionFailed
func IsPreconditionFailed(err error) bool { return stderrors.Is(err, ErrPreconditionFailed) }

// IsInvalidInput reports whether err wraps ErrInvalidInput
func IsInvalidInput(err error) bool { return stderrors.Is(err, ErrInvalidInput) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
