package camera

import (
	"errors"
	"fmt"
)

// Error represents a domain-specific camera error
type Error struct {
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Error codes
const (
	ErrCodeDeviceUnavailable = "DEVICE_UNAVAILABLE"
	ErrCodeCaptureFailed     = "CAPTURE_FAILED"
	ErrCodeNotStreaming      = "NOT_STREAMING"
	ErrCodeNoFrameYet        = "NO_FRAME_YET"
)

// ErrEndOfStream is returned by Source.ReadFrame when the device stops
// producing frames. It terminates the owning worker and never surfaces
// to callers directly.
var ErrEndOfStream = errors.New("end of stream")

// NewError creates a new camera error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// HasCode reports whether err is a camera error with the given code.
func HasCode(err error, code string) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
