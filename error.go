// Copyright (c) 2024-2026 The secpsig developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secpsig

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrPrivateKeyIsZero is returned when attempting to construct a private
	// key from bytes that represent the value zero.
	ErrPrivateKeyIsZero = ErrorKind("ErrPrivateKeyIsZero")

	// ErrPrivateKeyTooBig is returned when attempting to construct a private
	// key from bytes that represent a value greater than or equal to the
	// group order.
	ErrPrivateKeyTooBig = ErrorKind("ErrPrivateKeyTooBig")

	// ErrNotPrivateKey is returned when an operation that requires a private
	// key is invoked on key material that only holds a public key.
	ErrNotPrivateKey = ErrorKind("ErrNotPrivateKey")

	// ErrPubKeyInvalidLen is returned when attempting to parse a public key
	// that is not one of the allowed lengths.
	ErrPubKeyInvalidLen = ErrorKind("ErrPubKeyInvalidLen")

	// ErrPubKeyInvalidFormat is returned when attempting to parse a public
	// key that does not specify one of the supported format identifier bytes.
	ErrPubKeyInvalidFormat = ErrorKind("ErrPubKeyInvalidFormat")

	// ErrPubKeyXTooBig is returned when attempting to parse a public key that
	// has an x coordinate that is greater than or equal to the field prime.
	ErrPubKeyXTooBig = ErrorKind("ErrPubKeyXTooBig")

	// ErrPubKeyYTooBig is returned when attempting to parse a public key that
	// has a y coordinate that is greater than or equal to the field prime.
	ErrPubKeyYTooBig = ErrorKind("ErrPubKeyYTooBig")

	// ErrPubKeyNotOnCurve is returned when attempting to parse a public key
	// that is not a point on the secp256k1 curve.
	ErrPubKeyNotOnCurve = ErrorKind("ErrPubKeyNotOnCurve")

	// ErrPubKeyMismatchedOddness is returned when attempting to parse a
	// public key in the hybrid format where the oddness of the y coordinate
	// does not match the specified oddness.
	ErrPubKeyMismatchedOddness = ErrorKind("ErrPubKeyMismatchedOddness")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to working with secp256k1 key material.
// It has full support for errors.Is and errors.As, so the caller can
// ascertain the specific reason for the error by checking the underlying
// error.
type Error struct {
	Err         error
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e Error) Unwrap() error {
	return e.Err
}

// makeError creates an Error given a set of arguments.
func makeError(kind ErrorKind, desc string) Error {
	return Error{Err: kind, Description: desc}
}
