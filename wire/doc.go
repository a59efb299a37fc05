// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wire implements the block-lattice state block format.

Every operation on an account chain, whether it opens the account, sends,
receives, or changes the representative, serializes as a single universal
"state" block carrying the full post-state of the account: its balance and
representative after the operation.  A CandidateBlock is the unsigned
descriptor of such a block; sealing it with the account key and a proof of
work nonce produces a Block whose JSON form is accepted verbatim by a node's
process RPC.
*/
package wire
