// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package work implements proof of work validation and solving for block
// production.
//
// A work value is an 8-byte nonce whose blake2b-64 digest over the block's
// work root meets or exceeds the per-block-class threshold the network
// publishes.  Unlike chains that use work for consensus, here work is purely
// a rate limiter attached to each block before broadcast.
package work

import (
	"context"
	"encoding/binary"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Value evaluates the work function for the given root and nonce.  The
// result is compared against a network threshold to decide validity.
func Value(root [32]byte, nonce uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], nonce)
	h, _ := blake2b.New(8, nil)
	h.Write(buf[:])
	h.Write(root[:])
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

// Check reports whether the nonce solves the work function for the root at
// the given threshold.
func Check(root [32]byte, nonce uint64, threshold uint64) bool {
	return Value(root, nonce) >= threshold
}

// Solve searches for a nonce meeting the threshold for the root, spreading
// the search across all CPUs.  It blocks until a solution is found or the
// context is canceled, in which case the context error is returned.
func Solve(ctx context.Context, root [32]byte, threshold uint64) (uint64, error) {
	// The search space is uniform, so independent workers simply start at
	// random offsets and scan linearly.
	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}
	begin := time.Now()
	log.Debugf("Solving for threshold %016x across %d worker(s)", threshold,
		workers)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	solved := make(chan uint64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(start uint64) {
			defer wg.Done()
			const batch = 4096
			nonce := start
			for {
				for i := 0; i < batch; i++ {
					if Check(root, nonce, threshold) {
						select {
						case solved <- nonce:
						default:
						}
						cancel()
						return
					}
					nonce++
				}
				select {
				case <-ctx.Done():
					return
				default:
				}
			}
		}(rand.Uint64())
	}
	wg.Wait()

	select {
	case nonce := <-solved:
		log.Debugf("Found nonce %016x after %v", nonce,
			time.Since(begin).Round(time.Millisecond))
		return nonce, nil
	default:
		return 0, ctx.Err()
	}
}
