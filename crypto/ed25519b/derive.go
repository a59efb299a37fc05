// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ed25519b

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/blake2b"
)

// SeedSize is the size of an account seed in bytes.
const SeedSize = 32

// Seed is the 32-byte master secret an unbounded sequence of account
// keypairs derives from.
type Seed [SeedSize]byte

// NewSeed returns a fresh cryptographically random seed.
func NewSeed() (Seed, error) {
	var seed Seed
	if _, err := io.ReadFull(rand.Reader, seed[:]); err != nil {
		return seed, err
	}
	return seed, nil
}

// ParseSeed converts the 64-character hex form seeds are conventionally
// stored in.
func ParseSeed(s string) (Seed, error) {
	var seed Seed
	if len(s) != SeedSize*2 {
		return seed, errors.New("seed must be 64 hex characters")
	}
	if _, err := hex.Decode(seed[:], []byte(s)); err != nil {
		return seed, errors.New("seed must be 64 hex characters")
	}
	return seed, nil
}

// Zero clears the seed material.
func (s *Seed) Zero() {
	for i := range s {
		s[i] = 0
	}
}

// DeriveKey deterministically derives the private key at the given account
// index from the seed: blake2b-256(seed || index) with the index encoded as
// a 32-bit big-endian integer.
func DeriveKey(seed Seed, index uint32) PrivateKey {
	var idx [4]byte
	binary.BigEndian.PutUint32(idx[:], index)
	h, _ := blake2b.New256(nil)
	h.Write(seed[:])
	h.Write(idx[:])
	var priv PrivateKey
	copy(priv[:], h.Sum(nil))
	return priv
}
