package types

import (
	"errors"
	"fmt"
)

// Failure kinds reported by editing commands. Every command failure wraps
// exactly one of these so callers can branch with errors.Is.
var (
	// ErrStructureNotFound means a required syntactic element is absent.
	ErrStructureNotFound = errors.New("structure not found")

	// ErrUnbalanced means bracket depth went negative or a scan hit its
	// boundary before the closing delimiter.
	ErrUnbalanced = errors.New("unbalanced delimiters")

	// ErrUnsupportedContent means no handler is registered for the content type.
	ErrUnsupportedContent = errors.New("unsupported content type")

	// ErrDuplicateEntity means the entity to generate already exists.
	ErrDuplicateEntity = errors.New("duplicate entity")

	// ErrUserCancelled means an interactive prompt was dismissed.
	ErrUserCancelled = errors.New("cancelled by user")

	// ErrInvalidArgument means user-supplied input names nothing we know.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMarkerReleased means a marker handle was used after release.
	ErrMarkerReleased = errors.New("marker released")
)

// OpError is a command failure carrying a user-facing message.
type OpError struct {
	Kind    error
	Message string
}

func (e *OpError) Error() string { return e.Message }

func (e *OpError) Unwrap() error { return e.Kind }

// Failf returns an *OpError of the given kind with a formatted message.
func Failf(kind error, format string, args ...interface{}) error {
	return &OpError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
