// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"time"

	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/rpcclient"
	"github.com/npy0/nanopy/wire"
)

// Ledger is the remote ledger query surface the wallet consumes.  It is
// implemented by rpcclient.Client; tests substitute fakes.
type Ledger interface {
	// AccountInfo returns the node's view of the account chain head, or
	// an error wrapping rpcclient.ErrAccountNotFound for an account with
	// no blocks.
	AccountInfo(ctx context.Context, account string) (*rpcclient.AccountInfo, error)

	// Receivable returns the source block hashes of unclaimed incoming
	// transfers in the order the node delivers them.
	Receivable(ctx context.Context, account string, count int) ([]wire.Hash, error)

	// BlocksInfo returns details of a batch of blocks in one round trip,
	// notably the amount moved and producing account of each transfer's
	// source block.
	BlocksInfo(ctx context.Context, hashes []wire.Hash) (map[wire.Hash]*rpcclient.BlockInfo, error)

	// AccountsBalances returns settled and receivable balances for a
	// batch of accounts.
	AccountsBalances(ctx context.Context, accounts []string) (map[string]rpcclient.AccountBalance, error)

	// AccountWeight returns the voting weight delegated to an account.
	AccountWeight(ctx context.Context, account string) (nanoutil.Amount, error)
}

// Broadcaster is the remote ledger submission surface.  It is implemented by
// rpcclient.Client.
type Broadcaster interface {
	// Process submits a signed block and returns the hash the remote
	// ledger acknowledged.
	Process(ctx context.Context, block *wire.Block, subtype string) (wire.Hash, error)
}

// WorkSource produces proof of work nonces for candidate blocks.
type WorkSource interface {
	// GenerateWork returns a nonce whose work value for root meets the
	// threshold.
	GenerateWork(ctx context.Context, root wire.Hash, threshold uint64) (uint64, error)
}

// Sealer turns candidate blocks into signed, broadcastable blocks.  It
// abstracts key custody away from the session.
type Sealer interface {
	// Seal signs the candidate and attaches the work nonce.
	Seal(candidate *wire.CandidateBlock, nonce uint64) (*wire.Block, error)
}

// Prompter is the confirmation seam between the session and whatever drives
// it.  Every candidate block is offered through it before any signing or
// broadcast happens, making each presentation a suspension point.
type Prompter interface {
	// ConfirmBlock reports whether the user accepts broadcasting the
	// candidate.
	ConfirmBlock(candidate *wire.CandidateBlock) (bool, error)

	// ConfirmReceive reports whether the user wants to claim the pending
	// transfer next.
	ConfirmReceive(transfer *PendingTransfer) (bool, error)

	// RequestRepresentative asks for a representative address when one
	// must be established or the current one should be reconsidered.
	// Returning a zero address declines.
	RequestRepresentative(reason string) (nanoutil.Address, error)
}

// Confirmer optionally blocks a session until the network confirms each
// broadcast block.  It is implemented by rpcclient.Notifier.
type Confirmer interface {
	AwaitConfirmation(ctx context.Context, hash wire.Hash, timeout time.Duration) error
}
