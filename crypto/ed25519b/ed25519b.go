// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ed25519b implements the ed25519 signature scheme with blake2b-512
// as the internal digest, the variant block-lattice networks sign blocks
// with.  It is otherwise identical to RFC 8032 ed25519.
package ed25519b

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"golang.org/x/crypto/blake2b"
)

const (
	// PrivateKeySize is the size of a private key in bytes.
	PrivateKeySize = 32

	// PublicKeySize is the size of a public key in bytes.
	PublicKeySize = 32

	// SignatureSize is the size of a signature in bytes.
	SignatureSize = 64
)

// PrivateKey is the 32-byte secret scalar seed of an account keypair.
type PrivateKey [PrivateKeySize]byte

// PublicKey is the 32-byte encoded curve point identifying an account.
type PublicKey [PublicKeySize]byte

// Zero clears the private key material.
func (k *PrivateKey) Zero() {
	for i := range k {
		k[i] = 0
	}
}

// expand hashes the private key into the clamped signing scalar and the
// 32-byte nonce prefix per the ed25519 construction.
func expand(priv PrivateKey) (*edwards25519.Scalar, []byte, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, nil, err
	}
	h.Write(priv[:])
	digest := h.Sum(nil)
	s, err := edwards25519.NewScalar().SetBytesWithClamping(digest[:32])
	if err != nil {
		return nil, nil, fmt.Errorf("clamping secret scalar: %w", err)
	}
	return s, digest[32:], nil
}

// Public derives the public key of the passed private key.
func Public(priv PrivateKey) (PublicKey, error) {
	var pub PublicKey
	s, _, err := expand(priv)
	if err != nil {
		return pub, err
	}
	point := new(edwards25519.Point).ScalarBaseMult(s)
	copy(pub[:], point.Bytes())
	return pub, nil
}

// Sign produces an ed25519-blake2b signature over the message with the
// passed private key.
func Sign(priv PrivateKey, message []byte) ([SignatureSize]byte, error) {
	var sig [SignatureSize]byte

	s, prefix, err := expand(priv)
	if err != nil {
		return sig, err
	}
	pub, err := Public(priv)
	if err != nil {
		return sig, err
	}

	// r = H(prefix || message), R = r*B.
	h, err := blake2b.New512(nil)
	if err != nil {
		return sig, err
	}
	h.Write(prefix)
	h.Write(message)
	r, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return sig, fmt.Errorf("reducing nonce scalar: %w", err)
	}
	R := new(edwards25519.Point).ScalarBaseMult(r)

	// k = H(R || A || message), S = k*s + r.
	k, err := challenge(R.Bytes(), pub, message)
	if err != nil {
		return sig, err
	}
	S := edwards25519.NewScalar().MultiplyAdd(k, s, r)

	copy(sig[:32], R.Bytes())
	copy(sig[32:], S.Bytes())
	return sig, nil
}

// Verify reports whether the signature over the message is valid for the
// public key.  Non-canonical signatures and public keys are rejected.
func Verify(pub PublicKey, message, sig []byte) bool {
	if len(sig) != SignatureSize {
		return false
	}

	A, err := new(edwards25519.Point).SetBytes(pub[:])
	if err != nil {
		return false
	}
	S, err := edwards25519.NewScalar().SetCanonicalBytes(sig[32:])
	if err != nil {
		return false
	}
	k, err := challenge(sig[:32], pub, message)
	if err != nil {
		return false
	}

	// Check [S]B = R + [k]A by recomputing R as [S]B - [k]A.
	minusA := new(edwards25519.Point).Negate(A)
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, S)
	return bytes.Equal(R.Bytes(), sig[:32])
}

// challenge computes the reduced challenge scalar k = H(R || A || message).
func challenge(encodedR []byte, pub PublicKey, message []byte) (*edwards25519.Scalar, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	h.Write(encodedR)
	h.Write(pub[:])
	h.Write(message)
	k, err := edwards25519.NewScalar().SetUniformBytes(h.Sum(nil))
	if err != nil {
		return nil, fmt.Errorf("reducing challenge scalar: %w", err)
	}
	return k, nil
}

// Equal reports whether two public keys are the same in constant time.
func (p PublicKey) Equal(other PublicKey) bool {
	return subtle.ConstantTimeCompare(p[:], other[:]) == 1
}

// ParsePublicKey converts a 32-byte slice to a PublicKey.
func ParsePublicKey(b []byte) (PublicKey, error) {
	var pub PublicKey
	if len(b) != PublicKeySize {
		return pub, errors.New("public key must be 32 bytes")
	}
	copy(pub[:], b)
	return pub, nil
}
