package rpc

import (
	"errors"
	"fmt"
)

// Standard errors returned by the command channel.
var (
	// ErrShutdown indicates the channel has been closed.
	ErrShutdown = errors.New("rpc channel shut down")

	// ErrInvalidResponse indicates a malformed response from the backend.
	ErrInvalidResponse = errors.New("invalid response from backend")
)

// Error is a command failure reported by the backend.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Data != nil {
		return fmt.Sprintf("rpc error %d: %s (data: %v)", e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// BatchError reports which command in a batch failed.
type BatchError struct {
	// Index is the position of the failing command within the batch.
	Index int

	// Method is the failing command's method name.
	Method string

	Err error
}

// Error implements the error interface.
func (e *BatchError) Error() string {
	return fmt.Sprintf("batch command %d (%s): %v", e.Index, e.Method, e.Err)
}

// Unwrap returns the underlying error.
func (e *BatchError) Unwrap() error {
	return e.Err
}
