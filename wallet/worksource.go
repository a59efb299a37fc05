// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"

	"github.com/npy0/nanopy/crypto/ed25519b"
	"github.com/npy0/nanopy/wire"
	"github.com/npy0/nanopy/work"
)

// LocalWorkSource solves proof of work on the local CPUs.
type LocalWorkSource struct{}

// GenerateWork solves the work function locally.  This satisfies the
// WorkSource interface.
func (LocalWorkSource) GenerateWork(ctx context.Context, root wire.Hash, threshold uint64) (uint64, error) {
	log.Debugf("Solving work for root %v locally", root)
	return work.Solve(ctx, [32]byte(root), threshold)
}

// RemoteWorkGenerator is the subset of the RPC client a RemoteWorkSource
// needs.
type RemoteWorkGenerator interface {
	WorkGenerate(ctx context.Context, root wire.Hash, threshold uint64) (uint64, error)
}

// RemoteWorkSource requests proof of work from a node and falls back to the
// configured source when the node refuses, as public nodes commonly disable
// work generation.
type RemoteWorkSource struct {
	// Node requests work from the remote node.
	Node RemoteWorkGenerator

	// Fallback is consulted when the node refuses.  When nil, the node's
	// refusal is returned as the error.
	Fallback WorkSource
}

// GenerateWork requests work remotely, verifying the returned nonce before
// trusting it.  This satisfies the WorkSource interface.
func (s *RemoteWorkSource) GenerateWork(ctx context.Context, root wire.Hash, threshold uint64) (uint64, error) {
	nonce, err := s.Node.WorkGenerate(ctx, root, threshold)
	if err == nil && !work.Check([32]byte(root), nonce, threshold) {
		err = makeError(ErrRemoteInconsistency,
			"node returned work below the requested threshold")
	}
	if err != nil {
		if s.Fallback == nil {
			return 0, err
		}
		log.Warnf("Node rejected work request, switching to local "+
			"generation: %v", err)
		return s.Fallback.GenerateWork(ctx, root, threshold)
	}
	return nonce, nil
}

// KeySealer seals candidates with a private key held in memory.
type KeySealer struct {
	priv ed25519b.PrivateKey
}

// NewKeySealer creates a sealer over the passed private key.
func NewKeySealer(priv ed25519b.PrivateKey) *KeySealer {
	return &KeySealer{priv: priv}
}

// Seal signs the candidate and attaches the work nonce.  This satisfies the
// Sealer interface.
func (k *KeySealer) Seal(candidate *wire.CandidateBlock, nonce uint64) (*wire.Block, error) {
	return candidate.Seal(k.priv, nonce)
}

// Zero clears the sealer's key material.
func (k *KeySealer) Zero() {
	k.priv.Zero()
}
