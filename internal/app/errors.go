package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrShutdown indicates the application has already shut down.
	ErrShutdown = errors.New("application shut down")

	// ErrDocumentNotFound indicates a document id did not resolve.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrLoopClosed is returned when posting to a closed loop.
	ErrLoopClosed = errors.New("event loop is closed")
)

// OperationError represents an error that occurred during a specific operation.
type OperationError struct {
	Op     string // Operation name (e.g., "open", "close")
	Target string // Target of the operation (e.g., document id)
	Err    error  // Underlying error
}

// NewOperationError creates a new OperationError.
func NewOperationError(op, target string, err error) *OperationError {
	return &OperationError{Op: op, Target: target, Err: err}
}

func (e *OperationError) Error() string {
	if e == nil {
		return ""
	}

	msg := e.Op
	if e.Target != "" {
		msg = fmt.Sprintf("%s %s", e.Op, e.Target)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// RecoveredPanicError wraps a panic value as an error.
type RecoveredPanicError struct {
	Value any
}

func (e *RecoveredPanicError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// recoverAsError runs fn and converts a panic into a RecoveredPanicError.
func recoverAsError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RecoveredPanicError{Value: r}
		}
	}()
	fn()
	return nil
}
