// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/crypto/ed25519b"
	"github.com/npy0/nanopy/nanoutil"
)

// AuditEntry reports the remote state of one account.
type AuditEntry struct {
	// Account is the audited address.
	Account nanoutil.Address

	// Balance is the account's settled balance.
	Balance nanoutil.Amount

	// Receivable is the total of unclaimed incoming transfers.
	Receivable nanoutil.Amount
}

// DeriveAccounts returns the addresses of the seed's accounts at indexes 0
// through lastIndex inclusive.
func DeriveAccounts(seed ed25519b.Seed, lastIndex uint32, params *chaincfg.Params) ([]nanoutil.Address, error) {
	accounts := make([]nanoutil.Address, 0, lastIndex+1)
	for index := uint32(0); ; index++ {
		priv := ed25519b.DeriveKey(seed, index)
		pub, err := ed25519b.Public(priv)
		priv.Zero()
		if err != nil {
			return nil, err
		}
		account, err := nanoutil.NewAddressPubKey(pub[:], params)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
		if index == lastIndex {
			break
		}
	}
	return accounts, nil
}

// Audit fetches balances and receivable totals for the passed accounts in
// one batch query, returning entries in the same order.
func Audit(ctx context.Context, ledger Ledger, accounts []nanoutil.Address) ([]AuditEntry, error) {
	addrs := make([]string, 0, len(accounts))
	for _, account := range accounts {
		addrs = append(addrs, account.String())
	}

	balances, err := ledger.AccountsBalances(ctx, addrs)
	if err != nil {
		return nil, err
	}

	entries := make([]AuditEntry, 0, len(accounts))
	for i, account := range accounts {
		entry := AuditEntry{Account: account}
		if balance, ok := balances[addrs[i]]; ok {
			entry.Balance = balance.Balance
			entry.Receivable = balance.Receivable
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
