// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"fmt"

	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/wire"
)

// PendingTransfer is one unclaimed incoming credit: the hash of the send
// block that produced it, the amount it carries, and the sender.
type PendingTransfer struct {
	// Source is the hash of the sender's send block.  A receive block
	// claims the transfer by carrying this hash in its link field.
	Source wire.Hash

	// Amount is the transferred value in raw.
	Amount nanoutil.Amount

	// Sender is the textual address of the sending account.
	Sender string
}

// PendingQueue is the set of unclaimed incoming transfers visible to one
// account at reconcile time.  It is sourced fresh from the ledger each
// session pass, never persisted.
//
// Transfers are consumed oldest-delivered first.  The node delivers
// receivables in its own stable order, and claiming them in that same order
// keeps the transfer a user is asked about first predictable across
// sessions.
type PendingQueue struct {
	transfers []PendingTransfer
}

// LoadPendingQueue fetches the account's current receivable set and resolves
// the amount and sender of every entry from its source block in a single
// batch query.
func LoadPendingQueue(ctx context.Context, ledger Ledger, account nanoutil.Address, limit int) (*PendingQueue, error) {
	hashes, err := ledger.Receivable(ctx, account.String(), limit)
	if err != nil {
		return nil, err
	}

	infos, err := ledger.BlocksInfo(ctx, hashes)
	if err != nil {
		return nil, err
	}
	queue := &PendingQueue{
		transfers: make([]PendingTransfer, 0, len(hashes)),
	}
	for _, hash := range hashes {
		info, ok := infos[hash]
		if !ok {
			str := fmt.Sprintf("ledger advertised receivable %v but "+
				"reported no source block for it", hash)
			return nil, makeError(ErrRemoteInconsistency, str)
		}
		queue.transfers = append(queue.transfers, PendingTransfer{
			Source: hash,
			Amount: info.Amount,
			Sender: info.BlockAccount,
		})
	}

	if len(queue.transfers) > 0 {
		log.Debugf("Account %v has %d receivable transfer(s)", account,
			len(queue.transfers))
	}
	return queue, nil
}

// Take removes and returns the next transfer to process, or false when the
// queue is empty.
func (q *PendingQueue) Take() (PendingTransfer, bool) {
	if len(q.transfers) == 0 {
		return PendingTransfer{}, false
	}
	transfer := q.transfers[0]
	q.transfers = q.transfers[1:]
	return transfer, true
}

// Peek returns the next transfer without consuming it, or false when the
// queue is empty.
func (q *PendingQueue) Peek() (PendingTransfer, bool) {
	if len(q.transfers) == 0 {
		return PendingTransfer{}, false
	}
	return q.transfers[0], true
}

// Len returns the number of transfers remaining.
func (q *PendingQueue) Len() int {
	return len(q.transfers)
}
