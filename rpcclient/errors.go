// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

// ErrorKind identifies a kind of error.  It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific Error.
const (
	// ErrInvalidEndpoint indicates the configured endpoint is not a URL
	// scheme the client can speak.
	ErrInvalidEndpoint = ErrorKind("ErrInvalidEndpoint")

	// ErrRequest indicates a request could not be constructed.
	ErrRequest = ErrorKind("ErrRequest")

	// ErrConnection indicates a request failed at the transport level:
	// the node was unreachable, timed out, or returned a non-OK status.
	ErrConnection = ErrorKind("ErrConnection")

	// ErrMalformedResponse indicates the node returned a document the
	// client could not decode.  It is distinct from ErrRPCNode so callers
	// can tell a broken endpoint from a rejected request.
	ErrMalformedResponse = ErrorKind("ErrMalformedResponse")

	// ErrRPCNode indicates the node processed the request and reported an
	// error, such as a rejected block submission.
	ErrRPCNode = ErrorKind("ErrRPCNode")

	// ErrAccountNotFound indicates the node has no ledger entry for the
	// requested account, i.e. the account has never been opened.
	ErrAccountNotFound = ErrorKind("ErrAccountNotFound")

	// ErrBlockNotFound indicates the node has no ledger entry for the
	// requested block hash.
	ErrBlockNotFound = ErrorKind("ErrBlockNotFound")

	// ErrDisabled indicates the node refused the request because the
	// relevant RPC is disabled in its configuration.
	ErrDisabled = ErrorKind("ErrDisabled")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an RPC client error.  It has full support for errors.Is
// and errors.As, so the caller can ascertain the specific reason for the
// error by checking the underlying error.
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

// makeError creates an Error given a set of arguments.  The cause, when not
// nil, is folded into the description.
func makeError(kind ErrorKind, desc string, cause error) Error {
	if cause != nil {
		desc += ": " + cause.Error()
	}
	return Error{Err: kind, Description: desc}
}
