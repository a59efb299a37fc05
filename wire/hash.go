// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/hex"
	"fmt"
)

// HashSize is the size of the array used to store block hashes.
const HashSize = 32

// MaxHashStringSize is the maximum length of a Hash hash string.
const MaxHashStringSize = HashSize * 2

// ErrHashStrSize describes an error that indicates the caller specified a
// hash string that has too many characters.
var ErrHashStrSize = fmt.Errorf("max hash string length is %v chars", MaxHashStringSize)

// Hash is used in several of the block-lattice messages and common
// structures.  It typically represents the blake2b digest of a block.  Hash
// strings are rendered as uppercase hex in wire order with no byte reversal.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the hash.
func (hash Hash) String() string {
	return fmt.Sprintf("%064X", hash[:])
}

// IsZero reports whether the hash is all zeroes, the value standing in for
// "no previous block" on an account that has never been opened.
func (hash Hash) IsZero() bool {
	return hash == Hash{}
}

// NewHashFromStr creates a Hash from a hash string.  The string must be 64
// hexadecimal characters; both cases are accepted.
func NewHashFromStr(src string) (Hash, error) {
	var hash Hash
	if len(src) > MaxHashStringSize {
		return hash, ErrHashStrSize
	}
	if len(src) != MaxHashStringSize {
		return hash, fmt.Errorf("hash string %q is not %d chars", src,
			MaxHashStringSize)
	}
	if _, err := hex.Decode(hash[:], []byte(src)); err != nil {
		return hash, fmt.Errorf("malformed hash string %q", src)
	}
	return hash, nil
}
