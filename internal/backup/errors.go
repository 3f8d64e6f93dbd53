package backup

import (
	"errors"
	"fmt"
)

// Import failures.  Every error returned by Service.Import wraps exactly one
// of these (or is a store error), so callers map them with errors.Is.
var (
	// ErrOwnershipViolation: the principal has no authority over an existing
	// or referenced record.
	ErrOwnershipViolation = errors.New("ownership violation")

	// ErrOwnerMismatch: an administrator's import links records that belong
	// to different accounts.
	ErrOwnerMismatch = errors.New("owner mismatch")

	// ErrDanglingReference: a referenced camera or film roll does not exist.
	ErrDanglingReference = errors.New("dangling reference")

	// ErrInvalidFormat: an enum-like field holds an unknown value.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrValidation: the payload is structurally unusable.
	ErrValidation = errors.New("invalid backup payload")
)

// Kind classifies err for metrics labels and logs.  Anything that is not
// one of the sentinels above is a store failure.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrOwnershipViolation):
		return "ownership_violation"
	case errors.Is(err, ErrOwnerMismatch):
		return "owner_mismatch"
	case errors.Is(err, ErrDanglingReference):
		return "dangling_reference"
	case errors.Is(err, ErrInvalidFormat):
		return "invalid_format"
	case errors.Is(err, ErrValidation):
		return "validation"
	default:
		return "store_failure"
	}
}

// IsClientError reports whether err was caused by the payload or the
// principal rather than by the store.
func IsClientError(err error) bool {
	k := Kind(err)
	return k != "ok" && k != "store_failure"
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrOwnershipViolation}, args...)...)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
