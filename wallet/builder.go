// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"fmt"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/wire"
)

// SendIntent expresses an explicit wish to debit the account.
type SendIntent struct {
	// Destination is the account to credit.
	Destination nanoutil.Address

	// Amount is the value to send in raw.  Ignored when EmptyAccount is
	// set.
	Amount nanoutil.Amount

	// EmptyAccount sends the entire balance, leaving the account at zero.
	EmptyAccount bool
}

// Intent carries the caller's one-shot wishes into a build pass.  A zero
// Intent expresses none, in which case the builder falls through to claiming
// receivable transfers.
type Intent struct {
	// Send, when non-nil, requests a send block.
	Send *SendIntent

	// Representative, when non-zero, requests a representative change.
	// It is folded into a send block when one is also requested, and
	// otherwise produces a dedicated change block.
	Representative nanoutil.Address
}

// BlockBuilder decides what block, if any, an account must produce next and
// constructs its candidate descriptor.  It is a pure decision engine: it
// performs no I/O, never mutates the snapshot it is given, and leaves
// confirmation, signing, and broadcast to the caller.
//
// A builder refuses to build twice against the same frontier.  The account
// chain is single-writer and strictly ordered, so a second block on one
// snapshot would fork the chain; callers must reconcile a fresh snapshot
// after every confirmed block.
type BlockBuilder struct {
	params       *chaincfg.Params
	lastFrontier wire.Hash
	built        bool
}

// NewBlockBuilder creates a block builder for one account session on the
// given network.
func NewBlockBuilder(params *chaincfg.Params) *BlockBuilder {
	return &BlockBuilder{params: params}
}

// Build evaluates the next action for the account in priority order: an
// explicit send intent first, then the offered pending transfer, then a
// requested representative change.  When none applies it fails with
// ErrNoActionNeeded, the terminal signal for the session.
//
// The passed transfer must only be non-nil when the caller has decided
// (interactively or by policy) that claiming it is acceptable.
func (b *BlockBuilder) Build(state AccountState, transfer *PendingTransfer, intent Intent) (*wire.CandidateBlock, error) {
	if b.built && b.lastFrontier == state.Frontier {
		str := fmt.Sprintf("frontier %v already produced a block; "+
			"reconcile before building again", state.Frontier)
		return nil, makeError(ErrStaleState, str)
	}

	candidate, err := b.build(state, transfer, intent)
	if err != nil {
		return nil, err
	}

	b.lastFrontier = state.Frontier
	b.built = true
	log.Debugf("Built %v candidate for %v: balance %s raw",
		candidate.Kind, state.Account, candidate.Balance.Raw())
	return candidate, nil
}

func (b *BlockBuilder) build(state AccountState, transfer *PendingTransfer, intent Intent) (*wire.CandidateBlock, error) {
	if !state.Opened() {
		return b.buildOpen(state, transfer, intent)
	}

	switch {
	case intent.Send != nil:
		return b.buildSend(state, intent)

	case transfer != nil:
		return b.buildReceive(state, transfer)

	case !intent.Representative.IsZero():
		return b.buildChange(state, intent.Representative)
	}

	return nil, makeError(ErrNoActionNeeded, "account requires no new block")
}

// buildOpen constructs the first block of an account chain.  The ledger only
// accepts a first block that receives value, so a pending transfer is
// required, and the block establishes the representative the caller
// supplied.
func (b *BlockBuilder) buildOpen(state AccountState, transfer *PendingTransfer, intent Intent) (*wire.CandidateBlock, error) {
	if intent.Send != nil {
		str := fmt.Sprintf("account %v has no blocks; it must receive "+
			"before it can send", state.Account)
		return nil, makeError(ErrUnopenedAccount, str)
	}
	if transfer == nil {
		if !intent.Representative.IsZero() {
			str := fmt.Sprintf("account %v has no blocks; its first block "+
				"must receive a transfer to establish a representative",
				state.Account)
			return nil, makeError(ErrUnopenedAccount, str)
		}
		return nil, makeError(ErrNoActionNeeded,
			"account has no blocks and nothing is receivable")
	}
	if intent.Representative.IsZero() {
		str := fmt.Sprintf("opening account %v requires a representative",
			state.Account)
		return nil, makeError(ErrMissingRepresentative, str)
	}

	return &wire.CandidateBlock{
		Kind:           wire.KindOpen,
		Account:        state.Account,
		Previous:       wire.Hash{},
		Representative: intent.Representative,
		Balance:        state.Balance.Add(transfer.Amount),
		Link:           transfer.Source,
		WorkThreshold:  b.params.ReceiveWorkThreshold,
	}, nil
}

// buildSend constructs a debit block.  A representative change requested in
// the same intent is folded into the block.
func (b *BlockBuilder) buildSend(state AccountState, intent Intent) (*wire.CandidateBlock, error) {
	send := intent.Send
	amount := send.Amount
	if send.EmptyAccount {
		if state.Balance.IsZero() {
			// A send must decrease the balance or the ledger rejects it.
			return nil, makeError(ErrNoActionNeeded,
				"account balance is already zero")
		}
		amount = state.Balance
	}

	balance, err := state.Balance.Sub(amount)
	if err != nil {
		// Balance is untouched; surface the exact failure.
		return nil, err
	}

	representative := state.Representative
	if !intent.Representative.IsZero() {
		representative = intent.Representative
	}

	return &wire.CandidateBlock{
		Kind:           wire.KindSend,
		Account:        state.Account,
		Previous:       state.Frontier,
		Representative: representative,
		Balance:        balance,
		Link:           wire.Hash(send.Destination.PubKey()),
		LinkAddress:    send.Destination,
		WorkThreshold:  b.params.SendWorkThreshold,
	}, nil
}

// buildReceive constructs a credit block claiming the pending transfer.
func (b *BlockBuilder) buildReceive(state AccountState, transfer *PendingTransfer) (*wire.CandidateBlock, error) {
	return &wire.CandidateBlock{
		Kind:           wire.KindReceive,
		Account:        state.Account,
		Previous:       state.Frontier,
		Representative: state.Representative,
		Balance:        state.Balance.Add(transfer.Amount),
		Link:           transfer.Source,
		WorkThreshold:  b.params.ReceiveWorkThreshold,
	}, nil
}

// buildChange constructs a block that only moves the account's voting
// delegation.
func (b *BlockBuilder) buildChange(state AccountState, representative nanoutil.Address) (*wire.CandidateBlock, error) {
	if representative == state.Representative {
		return nil, makeError(ErrNoActionNeeded,
			"representative already set to the requested address")
	}

	return &wire.CandidateBlock{
		Kind:           wire.KindChange,
		Account:        state.Account,
		Previous:       state.Frontier,
		Representative: representative,
		Balance:        state.Balance,
		Link:           wire.Hash{},
		WorkThreshold:  b.params.ReceiveWorkThreshold,
	}, nil
}
