// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package work

import (
	"context"
	"testing"
	"time"
)

// TestCheckThresholds ensures validity is decided by comparing the evaluated
// work value against the threshold.
func TestCheckThresholds(t *testing.T) {
	var root [32]byte
	copy(root[:], "previous block hash placeholder!")

	const nonce = 0x0123456789abcdef
	v := Value(root, nonce)

	if !Check(root, nonce, 0) {
		t.Fatal("nonce rejected at zero threshold")
	}
	if !Check(root, nonce, v) {
		t.Fatal("nonce rejected at its own value")
	}
	if v < ^uint64(0) && Check(root, nonce, v+1) {
		t.Fatal("nonce accepted above its value")
	}
}

// TestValueDependsOnRoot ensures a nonce solved for one root does not carry
// over to another, which would let stale work be replayed.
func TestValueDependsOnRoot(t *testing.T) {
	var rootA, rootB [32]byte
	rootB[31] = 0x01
	const nonce = 42
	if Value(rootA, nonce) == Value(rootB, nonce) {
		t.Fatal("work value independent of root")
	}
}

// TestSolve ensures solving terminates with a valid nonce for an easy
// threshold.
func TestSolve(t *testing.T) {
	var root [32]byte
	copy(root[:], "an open block work root---------")

	// A threshold with 16 leading zero bits is solvable in well under a
	// second on any hardware.
	const threshold = uint64(0x0001000000000000)
	nonce, err := Solve(context.Background(), root, threshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !Check(root, nonce, threshold) {
		t.Fatalf("solver returned invalid nonce %#x", nonce)
	}
}

// TestSolveCancel ensures cancellation interrupts an effectively impossible
// search.
func TestSolveCancel(t *testing.T) {
	var root [32]byte
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Solve(ctx, root, ^uint64(0))
	if err == nil {
		t.Fatal("expected cancellation error")
	}
}
