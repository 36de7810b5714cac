// Package errs holds the error kinds shared by the tab model and player.
// Call sites wrap these with context; match them with errors.Is.
package errs

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned for zero denominators, malformed
	// structure strings and similar bad input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when a bar, beat or slot index falls
	// outside its bounds.
	ErrOutOfRange = errors.New("out of range")

	// ErrStructuralIntegrity is returned when a beat structure does not
	// add up to exactly one beat.
	ErrStructuralIntegrity = errors.New("structural integrity violation")
)

func OutOfRange(what string, n, max int) error {
	return errors.Wrapf(ErrOutOfRange, "%s %d not in [1, %d]", what, n, max)
}

func InvalidArgument(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}
