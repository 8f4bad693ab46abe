package vipscale

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cshum/vipscale/vips"
)

var (
	// ErrInvalid syntactic invalid request error
	ErrInvalid = NewError("invalid", http.StatusBadRequest)
	// ErrMethodNotAllowed method not allowed error
	ErrMethodNotAllowed = NewError("method not allowed", http.StatusMethodNotAllowed)
	// ErrUnsupportedFormat unsupported format error
	ErrUnsupportedFormat = NewError("unsupported format", http.StatusNotAcceptable)
	// ErrTooManyRequests too many requests error
	ErrTooManyRequests = NewError("too many requests", http.StatusTooManyRequests)
	// ErrInternal internal error
	ErrInternal = NewError("internal error", http.StatusInternalServerError)
)

const errPrefix = "vipscale:"

// Error vipscale error convention
type Error struct {
	Message string `json:"message,omitempty"`
	Code    int    `json:"status,omitempty"`
}

// Error implements error
func (e Error) Error() string {
	return fmt.Sprintf("%s %d %s", errPrefix, e.Code, e.Message)
}

// NewError creates Error from message and status code
func NewError(msg string, code int) Error {
	return Error{Message: msg, Code: code}
}

// WrapError wraps Go error into the Error convention. A libvips failure
// message stays opaque; its meaning belongs to the libvips documentation.
func WrapError(err error) Error {
	if err == nil {
		return ErrInternal
	}
	var e Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, vips.ErrUnsupportedImageFormat) {
		return ErrUnsupportedFormat
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError("timeout", http.StatusRequestTimeout)
	}
	if errors.Is(err, context.Canceled) {
		// nginx convention for a client that went away mid-request
		return NewError("request cancelled", 499)
	}
	return NewError(err.Error(), http.StatusInternalServerError)
}
