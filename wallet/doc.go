// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package wallet implements per-account transaction building and sequencing
for a block-lattice ledger.

Each account owns its own singly-linked chain of blocks with exactly one
writer.  The wallet's job is to reconcile a locally-known account against the
remote ledger's view, decide what block (if any) must be produced next,
compute its exact post-state, and hand a ready-to-sign candidate to its
caller.  The pieces are layered so the decision core stays free of I/O:

AccountState is an immutable snapshot of an account's chain head taken with
Reconcile.  PendingQueue is the set of unclaimed incoming transfers at
snapshot time, consumed oldest-delivered first.  BlockBuilder is a pure
decision engine mapping (snapshot, offered transfer, intent) to a candidate
block in priority order send, receive, change; it enforces that no frontier
snapshot ever produces more than one block, since a second block on the same
previous hash would fork the chain.  Session drives the cycle: reconcile,
build, confirm through a Prompter, attach work, seal, broadcast, verify the
acknowledgment, and only then reconcile again for the next block.  A failed
or rejected broadcast leaves local state exactly as it was, so the same
candidate can be safely rebuilt.

The package also carries the session's supporting pieces: work sources
(local solver and remote with fallback), a sealed seed file keystore, and
batch account auditing.
*/
package wallet
