// Package errors defines the error taxonomy every simplefs operation reports
// through, and the vocabulary callers use to inspect a failure's kind.
package errors

import "fmt"

// FSError is the interface every taxonomy code and wrapped error satisfies.
type FSError interface {
	error
	WithMessage(message string) FSError
	WrapError(err error) FSError
}

// Code is a taxonomy constant from the spec's error table. It implements
// FSError directly so a bare code can be returned without further wrapping.
type Code string

const (
	GENERAL          = Code("general I/O or internal error")
	CREATE           = Code("cannot create object")
	NoSuchFile       = Code("no such file")
	NoSuchDir        = Code("no such directory")
	TooManyOpenFiles = Code("too many open files")
	BadFD            = Code("bad file descriptor")
	FileInUse        = Code("file is open elsewhere")
	FileTooBig       = Code("file too big")
	NoSpace          = Code("no space left on device")
	SeekOutOfBounds  = Code("seek out of bounds")
	DirNotEmpty      = Code("directory not empty")
	RootDir          = Code("operation not permitted on root directory")
	BufferTooSmall   = Code("buffer too small")
)

func (c Code) Error() string {
	return string(c)
}

// WithMessage attaches additional context to a taxonomy code without losing
// the code itself: errors.Is(result, c) still matches.
func (c Code) WithMessage(message string) FSError {
	return wrapped{code: c, message: message}
}

// WrapError records a lower-level error (e.g. one surfaced by the disk
// layer) under this taxonomy code.
func (c Code) WrapError(err error) FSError {
	return wrapped{code: c, message: err.Error(), cause: err}
}

// wrapped decorates a taxonomy code with a message and/or an underlying
// cause; errors.Is still matches the original Code so callers can keep
// switching on taxonomy rather than string contents.
type wrapped struct {
	code    Code
	message string
	cause   error
}

func (w wrapped) Error() string {
	if w.message == "" {
		return w.code.Error()
	}
	return fmt.Sprintf("%s: %s", w.code.Error(), w.message)
}

func (w wrapped) Is(target error) bool {
	code, ok := target.(Code)
	return ok && code == w.code
}

func (w wrapped) Unwrap() error {
	if w.cause != nil {
		return w.cause
	}
	return w.code
}

func (w wrapped) WithMessage(message string) FSError {
	return wrapped{code: w.code, message: fmt.Sprintf("%s: %s", w.message, message), cause: w.cause}
}

func (w wrapped) WrapError(err error) FSError {
	return wrapped{code: w.code, message: err.Error(), cause: err}
}
