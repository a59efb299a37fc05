// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nanoutil

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrMalformedAmount indicates an amount string that is not a valid
	// decimal number.
	ErrMalformedAmount = ErrorKind("ErrMalformedAmount")

	// ErrNegativeAmount indicates an amount that would be negative.
	// Amounts are quantities of raw and can never go below zero.
	ErrNegativeAmount = ErrorKind("ErrNegativeAmount")

	// ErrAmountTooLarge indicates an amount that does not fit in the
	// 128-bit balance field of a block.
	ErrAmountTooLarge = ErrorKind("ErrAmountTooLarge")

	// ErrInsufficientBalance indicates a subtraction whose subtrahend
	// exceeds the available balance.
	ErrInsufficientBalance = ErrorKind("ErrInsufficientBalance")

	// ErrMalformedAddress indicates an account address string that is not
	// structurally valid for the network.
	ErrMalformedAddress = ErrorKind("ErrMalformedAddress")

	// ErrUnknownPrefix indicates an account address with a prefix the
	// network does not recognize.
	ErrUnknownPrefix = ErrorKind("ErrUnknownPrefix")

	// ErrChecksumMismatch indicates an account address whose embedded
	// checksum does not match its public key.
	ErrChecksumMismatch = ErrorKind("ErrChecksumMismatch")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an amount or address handling error.  It has full support
// for errors.Is and errors.As, so the caller can ascertain the specific
// reason for the error by checking the underlying error.
type Error struct {
	Description string
	Err         error
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
