// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/rpcclient"
	"github.com/npy0/nanopy/wire"
)

// AccountState is one reconciled snapshot of an account's chain head: the
// frontier it would build its next block on, the balance at that frontier,
// and the current representative.
//
// AccountState is a value that is never mutated.  A fresh snapshot must be
// taken with Reconcile before every block construction attempt; a snapshot
// observed before a broadcast is stale once that broadcast may have happened
// and must never be reused to build a second block.
type AccountState struct {
	// Account is the address the snapshot describes.
	Account nanoutil.Address

	// Frontier is the hash of the latest block on the account chain, or
	// zero when the account has never been opened.
	Frontier wire.Hash

	// Balance is the balance at the frontier.  Zero for unopened
	// accounts.
	Balance nanoutil.Amount

	// Representative is the account's voting delegate, or the zero
	// address for unopened accounts.
	Representative nanoutil.Address
}

// Opened reports whether the account has any blocks.
func (s *AccountState) Opened() bool {
	return !s.Frontier.IsZero()
}

// Reconcile queries the remote ledger for the account's current chain head
// and returns a fresh snapshot.  An account the ledger has never seen yields
// an unopened snapshot: zero frontier, zero balance, absent representative.
func Reconcile(ctx context.Context, ledger Ledger, account nanoutil.Address, params *chaincfg.Params) (AccountState, error) {
	info, err := ledger.AccountInfo(ctx, account.String())
	if err != nil {
		if errors.Is(err, rpcclient.ErrAccountNotFound) {
			log.Debugf("Account %v not yet opened", account)
			return AccountState{Account: account}, nil
		}
		return AccountState{}, err
	}

	representative, err := nanoutil.DecodeAddress(info.Representative, params)
	if err != nil {
		str := fmt.Sprintf("ledger reported representative %q: %v",
			info.Representative, err)
		return AccountState{}, makeError(ErrRemoteInconsistency, str)
	}

	log.Debugf("Account %v frontier %v balance %s raw", account,
		info.Frontier, info.Balance.Raw())
	return AccountState{
		Account:        account,
		Frontier:       info.Frontier,
		Balance:        info.Balance,
		Representative: representative,
	}, nil
}
