package testutil

import "errors"

// ErrSimulated stands in for a failing dependency.
var ErrSimulated = errors.New("simulated error for testing")
