package lua

import (
	"errors"

	lua "github.com/yuin/gopher-lua"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNotFunction is returned when a ref does not resolve to a function.
	ErrNotFunction = errors.New("ref is not a function")
)

// ScriptError is an error raised by Lua code. Error returns the Lua
// error value only; the traceback stays in StackTrace.
type ScriptError struct {
	Message    string
	StackTrace string
}

func (e *ScriptError) Error() string {
	return e.Message
}

// scriptError strips the traceback from a gopher-lua API error.
func scriptError(err error) error {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) || apiErr.Object == nil {
		return err
	}
	return &ScriptError{Message: apiErr.Object.String(), StackTrace: apiErr.StackTrace}
}
