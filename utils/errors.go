package utils

import (
	"github.com/pkg/errors"
)

// ErrContractViolation is wrapped by every panic raised when a caller breaks an API invariant, such as
// an out of range index or binding a frame to the wrong camera. These are programmer errors and are
// never returned as values.
var ErrContractViolation = errors.New("contract violation")

// NewContractViolation builds the error value a contract panic carries.
func NewContractViolation(format string, args ...interface{}) error {
	return errors.Wrapf(ErrContractViolation, format, args...)
}

// ContractViolation panics with a contract violation describing the broken invariant.
func ContractViolation(format string, args ...interface{}) {
	panic(NewContractViolation(format, args...))
}

// CheckIndex panics if idx is not a valid index into a sequence of the given size.
func CheckIndex(what string, idx, size int) {
	if idx < 0 || idx >= size {
		ContractViolation("%s index %d out of range [0, %d)", what, idx, size)
	}
}

// IsContractViolation returns whether a recovered panic value is a contract violation.
func IsContractViolation(recovered interface{}) bool {
	err, ok := recovered.(error)
	return ok && errors.Is(err, ErrContractViolation)
}

// NewConfigValidationError returns an error specifying that there was an error validating the config at path.
func NewConfigValidationError(path string, err error) error {
	return errors.Wrapf(err, "error validating %q", path)
}

// NewConfigValidationFieldRequiredError returns an error specifying that a required field is missing from
// the config at path.
func NewConfigValidationFieldRequiredError(path, field string) error {
	return NewConfigValidationError(path, errors.Errorf("%q is required", field))
}
