package merfish

import (
	"errors"
	"fmt"
)

var (
	ErrTruncatedInput     = errors.New("truncated input")
	ErrUnsupportedVersion = errors.New("unsupported header version")
	ErrCorruptSource      = errors.New("source marked as corrupt")
	ErrMalformedLayout    = errors.New("malformed record layout")
	ErrUnknownType        = errors.New("unknown scalar type")
	ErrSizeMismatch       = errors.New("file size does not match header")
	ErrFieldNotFound      = errors.New("field not found")
	ErrTypeMismatch       = errors.New("field type mismatch")
	ErrUnsupportedWidth   = errors.New("unsupported integer width")
	ErrClosed             = errors.New("file is closed")
)

// SizeMismatchError reports the file size implied by the header next to the
// size actually observed. It matches ErrSizeMismatch.
type SizeMismatchError struct {
	Expected uint64
	Actual   uint64
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("%v: expected %d bytes, got %d", ErrSizeMismatch, e.Expected, e.Actual)
}

func (e *SizeMismatchError) Is(target error) bool {
	return target == ErrSizeMismatch
}
