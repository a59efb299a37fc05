// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrNoActionNeeded indicates the account requires no new block: no
	// intent was expressed and nothing is receivable.  It is a terminal
	// signal for a session, not a failure.
	ErrNoActionNeeded = ErrorKind("ErrNoActionNeeded")

	// ErrStaleState indicates an attempt to build a second block against
	// a frontier snapshot that already produced one.  Building twice from
	// one snapshot would fork the account chain.
	ErrStaleState = ErrorKind("ErrStaleState")

	// ErrUnopenedAccount indicates an operation that requires an opened
	// account, such as sending or changing the representative, was
	// attempted on an account with no blocks.
	ErrUnopenedAccount = ErrorKind("ErrUnopenedAccount")

	// ErrMissingRepresentative indicates no representative was available
	// when one had to be established, such as for an account's first
	// block.
	ErrMissingRepresentative = ErrorKind("ErrMissingRepresentative")

	// ErrSubmissionRejected indicates the remote ledger refused a
	// broadcast block.  Local state is unchanged by the attempt, so the
	// same block may be safely rebuilt from a fresh snapshot.
	ErrSubmissionRejected = ErrorKind("ErrSubmissionRejected")

	// ErrRemoteInconsistency indicates the remote ledger acknowledged
	// something other than the submitted block, meaning a concurrent or
	// interleaved write happened.  The session must re-reconcile from
	// scratch rather than retry.
	ErrRemoteInconsistency = ErrorKind("ErrRemoteInconsistency")

	// ErrBadPassphrase indicates a sealed seed file could not be opened
	// with the supplied passphrase.
	ErrBadPassphrase = ErrorKind("ErrBadPassphrase")

	// ErrCorruptSeedFile indicates a sealed seed file is structurally
	// damaged.
	ErrCorruptSeedFile = ErrorKind("ErrCorruptSeedFile")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies a wallet error.  It has full support for errors.Is and
// errors.As, so the caller can ascertain the specific reason for the error
// by checking the underlying error.
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
