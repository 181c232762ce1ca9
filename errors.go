package probkit

import "errors"

var (
	// ErrInvalidConfig is returned when a structure is constructed with
	// non-positive or out-of-range parameters.
	ErrInvalidConfig = errors.New("probkit: invalid configuration")

	// ErrInvalidItem is returned when an empty item is added to or tested
	// against a filter.
	ErrInvalidItem = errors.New("probkit: item must be a non-empty string")

	// ErrTypeMismatch is returned by Screen when it is not given a usable
	// filter.
	ErrTypeMismatch = errors.New("probkit: argument type mismatch")
)
