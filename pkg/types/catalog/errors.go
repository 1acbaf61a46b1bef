package catalog

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned by lookups that miss. Callers render it as a normal state.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a malformed skill record found at ingestion time.
	ErrValidation = errors.New("invalid skill")
)

// IsNotFound reports whether err was caused by ErrNotFound.
func IsNotFound(err error) bool {
	return err != nil && errors.Cause(err) == ErrNotFound
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return errors.Wrapf(ErrNotFound, format, args...)
}
