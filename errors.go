package bitrle

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// CodecError is an error that belongs to one of the categories below. Errors
// derived from a category with WithMessage or Wrap still match it with
// [errors.Is].
type CodecError struct {
	message string
	parent  error
}

var ErrArgumentOutOfRange = newCategory("Numerical argument out of domain")
var ErrFileDescriptorBadState = newCategory("File descriptor in bad state")
var ErrInvalidArgument = newCategory("Invalid argument")
var ErrIOFailed = newCategory("Input/output error")
var ErrResultOutOfRange = newCategory("Numerical result out of range")
var ErrTruncatedStream = newCategory("Truncated stream")

func newCategory(message string) *CodecError {
	return &CodecError{message: message}
}

func (e *CodecError) Error() string {
	return e.message
}

func (e *CodecError) Unwrap() error {
	return e.parent
}

// WithMessage returns a child of this error with extra detail appended to the
// message.
func (e *CodecError) WithMessage(message string) *CodecError {
	return &CodecError{
		message: fmt.Sprintf("%s: %s", e.message, message),
		parent:  e,
	}
}

// Wrap returns a child of this error caused by `err`. The result matches both
// this error and `err`.
func (e *CodecError) Wrap(err error) *CodecError {
	return &CodecError{
		message: fmt.Sprintf("%s: %s", e.message, err.Error()),
		parent:  multierror.Append(e, err),
	}
}
