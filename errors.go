// Copyright 2019 Graham Clark. All rights reserved.  Use of this source
// code is governed by the MIT license that can be found in the LICENSE
// file.

package console

import (
	"fmt"

	"github.com/pkg/errors"
)

//======================================================================

// KeyValueError wraps an error with structured context fields, matching
// the pattern gowid used for WithKVs - used where a bare error message
// would force a reader to go dig through logs for the offending state
// (e.g. which TERM value a backend failed to initialize against).
type KeyValueError struct {
	Base    error
	KeyVals map[string]interface{}
}

var _ error = KeyValueError{}

func (e KeyValueError) Error() string {
	return fmt.Sprintf("%s %v", e.Base.Error(), e.KeyVals)
}

func (e KeyValueError) Cause() error { return e.Base }
func (e KeyValueError) Unwrap() error { return e.Base }

// WithKVs wraps err with structured key/value context.
func WithKVs(err error, kvs map[string]interface{}) error {
	return KeyValueError{Base: err, KeyVals: kvs}
}

//======================================================================

// InvariantViolation is raised (via panic) when debug assertions catch an
// internal invariant broken - e.g. more than one active widget in a
// subtree. When one is raised inside a widget callback or timer action,
// the Application's consumer loop recovers it, logs the panic value and
// posts a CommandExceptionDialog event rather than crash the whole
// process; it does not close the offending window.
type InvariantViolation struct {
	Msg string
}

func (e InvariantViolation) Error() string {
	return "invariant violation: " + e.Msg
}

// AssertInvariant panics with an InvariantViolation if cond is false. Only
// call this for conditions that indicate a bug in this library or a
// caller's misuse of an internal API, never for malformed external input.
func AssertInvariant(cond bool, msg string) {
	if !cond {
		panic(errors.WithStack(InvariantViolation{Msg: msg}))
	}
}
