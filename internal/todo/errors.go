package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no item carries the requested identifier.
	ErrNotFound = errors.New("todo: item not found")
	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("todo: malformed document")
	// ErrEncode wraps encoder failures from Serialize.
	ErrEncode = errors.New("todo: encode document")
	// ErrReadOnly is returned by Save when the saved document could not be
	// read and so must not be replaced.
	ErrReadOnly = errors.New("todo: saved list could not be read, not overwriting it")
	// ErrIdentifiersExhausted is returned by List.Add once the next
	// identifier would exceed MaxIdentifier.
	ErrIdentifiersExhausted = errors.New("todo: no identifiers left")
)

// DecodeError reports a persisted document that could not be loaded.
type DecodeError struct {
	Path string // JSON path of the offending value, if known
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("decode: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

func notFound(id int) error {
	return fmt.Errorf("%w: %d", ErrNotFound, id)
}
