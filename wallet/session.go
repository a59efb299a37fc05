// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/nanoutil"
)

// receivableLimit caps how many pending transfers one session pass loads.
const receivableLimit = 64

// confirmationTimeout bounds how long a session waits for the network to
// confirm a broadcast block when a Confirmer is configured.
const confirmationTimeout = 30 * time.Second

// repWeightWarnPercent is the share of total voting weight past which a
// session suggests moving to a smaller representative.
const repWeightWarnPercent = 1

// SessionConfig assembles the collaborators a session drives.  Params,
// Ledger, Broadcaster, Work, Sealer, and Prompter are required; Confirmer is
// optional.
type SessionConfig struct {
	// Params are the network parameters of the ledger being talked to.
	Params *chaincfg.Params

	// Account is the address the session operates on.
	Account nanoutil.Address

	// Ledger answers state and receivable queries.
	Ledger Ledger

	// Broadcaster submits sealed blocks.
	Broadcaster Broadcaster

	// Work produces proof of work nonces.
	Work WorkSource

	// Sealer signs accepted candidates.
	Sealer Sealer

	// Prompter supplies every accept/reject decision.
	Prompter Prompter

	// Confirmer, when set, blocks after each broadcast until the network
	// confirms the block.
	Confirmer Confirmer

	// DryRun stops the session after presenting the first candidate,
	// without signing or broadcasting anything.
	DryRun bool
}

// Session drives one account through reconcile, build, confirm, and
// broadcast passes until no further block is needed or the user declines
// one.  Sessions are strictly sequential: a new block is only built after
// the previous one's broadcast was acknowledged and a fresh snapshot was
// reconciled, so two unconfirmed blocks are never in flight.
type Session struct {
	cfg     SessionConfig
	builder *BlockBuilder
}

// NewSession creates a session over the passed collaborators.
func NewSession(cfg *SessionConfig) (*Session, error) {
	switch {
	case cfg.Params == nil:
		return nil, fmt.Errorf("session requires network parameters")
	case cfg.Account.IsZero():
		return nil, fmt.Errorf("session requires an account")
	case cfg.Ledger == nil:
		return nil, fmt.Errorf("session requires a ledger")
	case cfg.Broadcaster == nil && !cfg.DryRun:
		return nil, fmt.Errorf("session requires a broadcaster")
	case cfg.Work == nil && !cfg.DryRun:
		return nil, fmt.Errorf("session requires a work source")
	case cfg.Sealer == nil && !cfg.DryRun:
		return nil, fmt.Errorf("session requires a sealer")
	case cfg.Prompter == nil:
		return nil, fmt.Errorf("session requires a prompter")
	}

	return &Session{
		cfg:     *cfg,
		builder: NewBlockBuilder(cfg.Params),
	}, nil
}

// Run executes the session.  The intent is one-shot: once a send or
// representative change has been folded into an accepted block, subsequent
// passes fall through to draining the receivable queue.  Run returns nil
// when the session ends because nothing further is needed or the user
// declined a candidate.
func (s *Session) Run(ctx context.Context, intent Intent) error {
	for {
		produced, err := s.pass(ctx, &intent)
		if err != nil {
			return err
		}
		if !produced {
			return nil
		}
		if s.cfg.DryRun {
			log.Infof("Dry run: stopping after first candidate")
			return nil
		}
	}
}

// pass performs one reconcile-build-confirm-broadcast cycle.  It reports
// whether a block was produced and broadcast, ending the session cleanly
// when it was not.
func (s *Session) pass(ctx context.Context, intent *Intent) (bool, error) {
	state, err := Reconcile(ctx, s.cfg.Ledger, s.cfg.Account, s.cfg.Params)
	if err != nil {
		return false, err
	}

	// Offer a representative change when the current one is too heavy,
	// unless the caller already asked for one.
	if state.Opened() && intent.Representative.IsZero() {
		s.suggestLighterRepresentative(ctx, state, intent)
	}

	transfer, err := s.nextTransfer(ctx, state, *intent)
	if err != nil {
		return false, err
	}

	// An unopened account needs a representative for its first block.
	if !state.Opened() && transfer != nil && intent.Representative.IsZero() {
		representative, err := s.cfg.Prompter.RequestRepresentative(
			"account has no blocks; choose a representative to open it")
		if err != nil {
			return false, err
		}
		if representative.IsZero() {
			return false, makeError(ErrMissingRepresentative,
				"no representative chosen for first block")
		}
		intent.Representative = representative
	}

	candidate, err := s.builder.Build(state, transfer, *intent)
	if err != nil {
		if errors.Is(err, ErrNoActionNeeded) {
			log.Debugf("Account %v requires no new block", s.cfg.Account)
			return false, nil
		}
		return false, err
	}

	accepted, err := s.cfg.Prompter.ConfirmBlock(candidate)
	if err != nil {
		return false, err
	}
	if !accepted {
		log.Infof("Candidate %v block rejected; stopping", candidate.Kind)
		return false, nil
	}
	if s.cfg.DryRun {
		return true, nil
	}

	nonce, err := s.cfg.Work.GenerateWork(ctx, candidate.WorkRoot(),
		candidate.WorkThreshold)
	if err != nil {
		return false, err
	}
	block, err := s.cfg.Sealer.Seal(candidate, nonce)
	if err != nil {
		return false, err
	}

	wantHash, err := candidate.Hash()
	if err != nil {
		return false, err
	}
	ackHash, err := s.cfg.Broadcaster.Process(ctx, block,
		candidate.Kind.Subtype())
	if err != nil {
		// Local state is untouched: the frontier was not advanced, so
		// the same candidate can be rebuilt from a fresh snapshot.
		str := fmt.Sprintf("ledger rejected %v block for %v: %v",
			candidate.Kind, s.cfg.Account, err)
		return false, makeError(ErrSubmissionRejected, str)
	}
	if ackHash != wantHash {
		str := fmt.Sprintf("ledger acknowledged %v, expected %v; "+
			"a concurrent write happened, reconcile from scratch",
			ackHash, wantHash)
		return false, makeError(ErrRemoteInconsistency, str)
	}
	log.Infof("Broadcast %v block %v for %v", candidate.Kind, ackHash,
		s.cfg.Account)

	if s.cfg.Confirmer != nil {
		err := s.cfg.Confirmer.AwaitConfirmation(ctx, ackHash,
			confirmationTimeout)
		if err != nil {
			return false, err
		}
	}

	// Send and representative intents are one-shot: clear them so the
	// following passes drain the receivable queue and terminate.
	if intent.Send != nil {
		intent.Send = nil
	}
	if !intent.Representative.IsZero() {
		intent.Representative = nanoutil.Address{}
	}
	return true, nil
}

// nextTransfer selects the pending transfer to offer this pass, if any.
// Explicit send intent takes priority over draining receivables, and each
// claim is confirmed through the prompter before the block is built.
func (s *Session) nextTransfer(ctx context.Context, state AccountState, intent Intent) (*PendingTransfer, error) {
	if intent.Send != nil {
		return nil, nil
	}
	// A change-only intent on an opened account produces its block first;
	// receivables are drained on later passes.
	if state.Opened() && !intent.Representative.IsZero() {
		return nil, nil
	}

	queue, err := LoadPendingQueue(ctx, s.cfg.Ledger, s.cfg.Account,
		receivableLimit)
	if err != nil {
		return nil, err
	}
	transfer, ok := queue.Take()
	if !ok {
		return nil, nil
	}

	accepted, err := s.cfg.Prompter.ConfirmReceive(&transfer)
	if err != nil {
		return nil, err
	}
	if !accepted {
		log.Infof("Receive of %s raw from %s declined", transfer.Amount.Raw(),
			transfer.Sender)
		return nil, nil
	}
	return &transfer, nil
}

// suggestLighterRepresentative warns when the account's representative
// controls more than repWeightWarnPercent of the total voting weight and
// lets the user move delegation in the same session.  Weight lookups are
// best effort; failures only disable the suggestion.
func (s *Session) suggestLighterRepresentative(ctx context.Context, state AccountState, intent *Intent) {
	weight, err := s.cfg.Ledger.AccountWeight(ctx,
		state.Representative.String())
	if err != nil {
		log.Debugf("Representative weight lookup failed: %v", err)
		return
	}

	// weight * 100 > maxSupply * percent
	scaled := new(big.Int).Mul(weight.BigInt(), big.NewInt(100))
	limit := new(big.Int).Mul(s.cfg.Params.MaxSupply,
		big.NewInt(repWeightWarnPercent))
	if scaled.Cmp(limit) <= 0 {
		return
	}

	log.Warnf("Representative %v holds over %d%% of voting weight",
		state.Representative, repWeightWarnPercent)
	representative, err := s.cfg.Prompter.RequestRepresentative(
		"current representative has too much voting weight; choose a " +
			"smaller one to keep the network decentralized (empty to keep)")
	if err != nil || representative.IsZero() {
		return
	}
	if representative != state.Representative {
		intent.Representative = representative
	}
}
