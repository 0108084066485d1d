package domain

import "errors"

// ErrNodeNotFound is returned when a node display name is not registered.
var ErrNodeNotFound = errors.New("node not found")

// ErrResultNotFound is returned when an invocation ID cannot be found in the store.
var ErrResultNotFound = errors.New("result not found")
