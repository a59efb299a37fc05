// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package nanoutil provides block-lattice convenience functions and types.

# Amount Overview

An Amount is an exact non-negative integer quantity of raw, the smallest unit
of the ledger.  Amounts convert to and from the human display unit by the
network exponent with no floating point anywhere in the path, so arithmetic
over them never drifts.  Subtraction refuses to go below zero and reports
insufficient balance instead.

# Address Overview

An Address binds a 256-bit account public key to a network prefix.  The
textual form is the prefix followed by 52 base32 characters of key material
and 8 characters of blake2b checksum.  Decoding validates structure, prefix,
and checksum, and accepts legacy prefixes still in circulation on networks
that define them.
*/
package nanoutil
