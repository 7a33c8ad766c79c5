package domain

import "errors"

// ErrInvalidArgument is returned when a required identifier or field is missing, blank or
// outside its allowed set. It is always raised before any state mutation.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrConfigurationMismatch is returned when an operation is invoked while the object's
// invariants forbid it (resolving twice, running an unconfigured block, re-arming a block
// that holds an error).
var ErrConfigurationMismatch = errors.New("configuration mismatch")

// ErrAlreadyExists is returned when inserting a duplicate key or identifier.
var ErrAlreadyExists = errors.New("already exists")
