// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/npy0/nanopy/rpcclient"
	"github.com/npy0/nanopy/wire"
)

// TestPendingQueueOrder ensures the queue resolves each receivable from its
// source block and consumes transfers in the order the node delivered them.
func TestPendingQueueOrder(t *testing.T) {
	params := testNetParams()
	account := testAddress(t, params, 0xaa)
	node := &fakeNode{
		receivables: []receivableEntry{
			{testHash(0x31), rawAmount(t, "100"), "sender-one"},
			{testHash(0x32), rawAmount(t, "200"), "sender-two"},
			{testHash(0x33), rawAmount(t, "300"), "sender-three"},
		},
	}

	queue, err := LoadPendingQueue(context.Background(), node, account, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if queue.Len() != 3 {
		t.Fatalf("unexpected length -- got %d, want 3", queue.Len())
	}
	// The whole receivable set resolves in one batch round trip.
	if node.blocksInfoReqs != 1 {
		t.Fatalf("unexpected blocks_info requests -- got %d, want 1",
			node.blocksInfoReqs)
	}

	peeked, ok := queue.Peek()
	if !ok || peeked.Source != testHash(0x31) {
		t.Fatalf("unexpected peek %v", peeked.Source)
	}
	if queue.Len() != 3 {
		t.Fatal("peek consumed a transfer")
	}

	want := []struct {
		source string
		amount string
		sender string
	}{
		{testHash(0x31).String(), "100", "sender-one"},
		{testHash(0x32).String(), "200", "sender-two"},
		{testHash(0x33).String(), "300", "sender-three"},
	}
	for i, w := range want {
		transfer, ok := queue.Take()
		if !ok {
			t.Fatalf("transfer %d: queue exhausted early", i)
		}
		if transfer.Source.String() != w.source {
			t.Errorf("transfer %d: unexpected source %v", i, transfer.Source)
		}
		if transfer.Amount.Raw() != w.amount {
			t.Errorf("transfer %d: unexpected amount %s", i,
				transfer.Amount.Raw())
		}
		if transfer.Sender != w.sender {
			t.Errorf("transfer %d: unexpected sender %s", i, transfer.Sender)
		}
	}

	if _, ok := queue.Take(); ok {
		t.Error("take succeeded on an empty queue")
	}
}

// unresolvedNode advertises receivables but cannot resolve their source
// blocks.
type unresolvedNode struct {
	*fakeNode
}

func (n *unresolvedNode) BlocksInfo(ctx context.Context, hashes []wire.Hash) (map[wire.Hash]*rpcclient.BlockInfo, error) {
	return map[wire.Hash]*rpcclient.BlockInfo{}, nil
}

// TestPendingQueueUnresolved ensures a receivable whose source block the
// ledger cannot describe is treated as a remote inconsistency instead of
// yielding a transfer with a zero amount.
func TestPendingQueueUnresolved(t *testing.T) {
	params := testNetParams()
	account := testAddress(t, params, 0xaa)
	node := &unresolvedNode{fakeNode: &fakeNode{
		receivables: []receivableEntry{
			{testHash(0x31), rawAmount(t, "100"), "sender-one"},
		},
	}}

	_, err := LoadPendingQueue(context.Background(), node, account, 64)
	if !errors.Is(err, ErrRemoteInconsistency) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrRemoteInconsistency)
	}
}

// TestPendingQueueEmpty ensures an account with nothing receivable yields an
// empty queue rather than an error.
func TestPendingQueueEmpty(t *testing.T) {
	params := testNetParams()
	account := testAddress(t, params, 0xaa)
	node := &fakeNode{}

	queue, err := LoadPendingQueue(context.Background(), node, account, 64)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if queue.Len() != 0 {
		t.Fatalf("unexpected length -- got %d, want 0", queue.Len())
	}
}
