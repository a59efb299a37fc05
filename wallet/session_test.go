// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/rpcclient"
	"github.com/npy0/nanopy/wire"
)

// receivableEntry is one unclaimed transfer the fake node offers.
type receivableEntry struct {
	hash   wire.Hash
	amount nanoutil.Amount
	sender string
}

// fakeNode implements Ledger and Broadcaster over in-memory account state so
// session passes observe their own broadcasts, the way a real node would.
type fakeNode struct {
	frontier       wire.Hash
	balance        nanoutil.Amount
	representative string
	receivables    []receivableEntry
	weights        map[string]nanoutil.Amount

	broadcasts     []*wire.Block
	processErr     error
	ackOverride    *wire.Hash
	blocksInfoReqs int
}

func (n *fakeNode) AccountInfo(ctx context.Context, account string) (*rpcclient.AccountInfo, error) {
	if n.frontier.IsZero() {
		return nil, rpcclient.ErrAccountNotFound
	}
	return &rpcclient.AccountInfo{
		Frontier:       n.frontier,
		Balance:        n.balance,
		Representative: n.representative,
	}, nil
}

func (n *fakeNode) Receivable(ctx context.Context, account string, count int) ([]wire.Hash, error) {
	hashes := make([]wire.Hash, 0, len(n.receivables))
	for _, entry := range n.receivables {
		hashes = append(hashes, entry.hash)
	}
	return hashes, nil
}

func (n *fakeNode) BlocksInfo(ctx context.Context, hashes []wire.Hash) (map[wire.Hash]*rpcclient.BlockInfo, error) {
	n.blocksInfoReqs++
	infos := make(map[wire.Hash]*rpcclient.BlockInfo, len(hashes))
	for _, hash := range hashes {
		for _, entry := range n.receivables {
			if entry.hash == hash {
				infos[hash] = &rpcclient.BlockInfo{
					BlockAccount: entry.sender,
					Amount:       entry.amount,
					Subtype:      "send",
					Confirmed:    true,
				}
			}
		}
	}
	return infos, nil
}

func (n *fakeNode) AccountsBalances(ctx context.Context, accounts []string) (map[string]rpcclient.AccountBalance, error) {
	balances := make(map[string]rpcclient.AccountBalance, len(accounts))
	for _, account := range accounts {
		balances[account] = rpcclient.AccountBalance{}
	}
	return balances, nil
}

func (n *fakeNode) AccountWeight(ctx context.Context, account string) (nanoutil.Amount, error) {
	return n.weights[account], nil
}

// Process applies the block to the fake ledger exactly as a node would:
// advance the frontier, settle the balance, and retire a claimed transfer.
func (n *fakeNode) Process(ctx context.Context, block *wire.Block, subtype string) (wire.Hash, error) {
	if n.processErr != nil {
		return wire.Hash{}, n.processErr
	}
	hash, err := block.Hash()
	if err != nil {
		return wire.Hash{}, err
	}

	n.frontier = hash
	n.balance = block.Candidate.Balance
	n.representative = block.Candidate.Representative.String()
	if subtype == "receive" || subtype == "open" {
		for i, entry := range n.receivables {
			if entry.hash == block.Candidate.Link {
				n.receivables = append(n.receivables[:i],
					n.receivables[i+1:]...)
				break
			}
		}
	}
	n.broadcasts = append(n.broadcasts, block)

	if n.ackOverride != nil {
		return *n.ackOverride, nil
	}
	return hash, nil
}

// fakeWork returns a fixed nonce without solving anything.
type fakeWork struct {
	calls int
}

func (w *fakeWork) GenerateWork(ctx context.Context, root wire.Hash, threshold uint64) (uint64, error) {
	w.calls++
	return uint64(w.calls), nil
}

// fakeSealer attaches the nonce without signing so session tests need no key
// material.
type fakeSealer struct {
	calls int
}

func (s *fakeSealer) Seal(candidate *wire.CandidateBlock, nonce uint64) (*wire.Block, error) {
	s.calls++
	return &wire.Block{Candidate: *candidate, Work: nonce}, nil
}

// scriptedPrompter answers every prompt from fixed fields and records what it
// was asked.
type scriptedPrompter struct {
	acceptBlocks   bool
	acceptReceives bool
	representative nanoutil.Address

	confirmed   []wire.BlockKind
	repRequests int
}

func (p *scriptedPrompter) ConfirmBlock(candidate *wire.CandidateBlock) (bool, error) {
	p.confirmed = append(p.confirmed, candidate.Kind)
	return p.acceptBlocks, nil
}

func (p *scriptedPrompter) ConfirmReceive(transfer *PendingTransfer) (bool, error) {
	return p.acceptReceives, nil
}

func (p *scriptedPrompter) RequestRepresentative(reason string) (nanoutil.Address, error) {
	p.repRequests++
	return p.representative, nil
}

// sessionHarness bundles a session with its fakes for inspection after Run.
type sessionHarness struct {
	session  *Session
	node     *fakeNode
	work     *fakeWork
	sealer   *fakeSealer
	prompter *scriptedPrompter
}

func newSessionHarness(t *testing.T, node *fakeNode, prompter *scriptedPrompter, intentDryRun bool) *sessionHarness {
	t.Helper()
	params := testNetParams()
	if node.weights == nil {
		node.weights = make(map[string]nanoutil.Amount)
	}
	work := &fakeWork{}
	sealer := &fakeSealer{}
	session, err := NewSession(&SessionConfig{
		Params:      params,
		Account:     testAddress(t, params, 0xaa),
		Ledger:      node,
		Broadcaster: node,
		Work:        work,
		Sealer:      sealer,
		Prompter:    prompter,
		DryRun:      intentDryRun,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return &sessionHarness{
		session:  session,
		node:     node,
		work:     work,
		sealer:   sealer,
		prompter: prompter,
	}
}

// TestSessionDrainsReceivables ensures a session claims every pending
// transfer one block at a time, observing its own broadcasts through fresh
// snapshots, then stops cleanly.
func TestSessionDrainsReceivables(t *testing.T) {
	params := testNetParams()
	representative := testAddress(t, params, 0xbb)
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "1000000"),
		representative: representative.String(),
		receivables: []receivableEntry{
			{testHash(0x31), rawAmount(t, "300000"), "sender-one"},
			{testHash(0x32), rawAmount(t, "50000"), "sender-two"},
		},
	}
	prompter := &scriptedPrompter{acceptBlocks: true, acceptReceives: true}
	harness := newSessionHarness(t, node, prompter, false)

	if err := harness.session.Run(context.Background(), Intent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(node.broadcasts) != 2 {
		t.Fatalf("unexpected broadcast count -- got %d, want 2:\n%s",
			len(node.broadcasts), spew.Sdump(node.broadcasts))
	}
	for i, block := range node.broadcasts {
		if block.Candidate.Kind != wire.KindReceive {
			t.Errorf("broadcast %d: unexpected kind %v", i,
				block.Candidate.Kind)
		}
	}
	if node.balance.Raw() != "1350000" {
		t.Errorf("unexpected final balance %s", node.balance.Raw())
	}
	if len(node.receivables) != 0 {
		t.Errorf("%d receivable(s) left unclaimed", len(node.receivables))
	}
	// Each block was built on the frontier left by the previous one.
	if node.broadcasts[1].Candidate.Previous == node.broadcasts[0].Candidate.Previous {
		t.Error("second block reused the first block's frontier")
	}
}

// TestSessionOpensAccount ensures a session on an account with no blocks asks
// for a representative and produces an open block for the first transfer.
func TestSessionOpensAccount(t *testing.T) {
	params := testNetParams()
	node := &fakeNode{
		receivables: []receivableEntry{
			{testHash(0x31), rawAmount(t, "1000000"), "sender-one"},
		},
	}
	prompter := &scriptedPrompter{
		acceptBlocks:   true,
		acceptReceives: true,
		representative: testAddress(t, params, 0xbb),
	}
	harness := newSessionHarness(t, node, prompter, false)

	if err := harness.session.Run(context.Background(), Intent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prompter.repRequests != 1 {
		t.Errorf("unexpected representative requests -- got %d, want 1",
			prompter.repRequests)
	}
	if len(node.broadcasts) != 1 {
		t.Fatalf("unexpected broadcast count -- got %d, want 1",
			len(node.broadcasts))
	}
	block := node.broadcasts[0]
	if block.Candidate.Kind != wire.KindOpen {
		t.Errorf("unexpected kind %v", block.Candidate.Kind)
	}
	if node.balance.Raw() != "1000000" {
		t.Errorf("unexpected final balance %s", node.balance.Raw())
	}
	if node.representative != prompter.representative.String() {
		t.Errorf("unexpected representative %s", node.representative)
	}
}

// TestSessionSendIntent ensures a send intent produces exactly one send
// block and is not applied twice.
func TestSessionSendIntent(t *testing.T) {
	params := testNetParams()
	destination := testAddress(t, params, 0xdd)
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "5000000"),
		representative: testAddress(t, params, 0xbb).String(),
	}
	prompter := &scriptedPrompter{acceptBlocks: true, acceptReceives: true}
	harness := newSessionHarness(t, node, prompter, false)

	intent := Intent{Send: &SendIntent{
		Destination: destination,
		Amount:      rawAmount(t, "2000000"),
	}}
	if err := harness.session.Run(context.Background(), intent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(node.broadcasts) != 1 {
		t.Fatalf("unexpected broadcast count -- got %d, want 1",
			len(node.broadcasts))
	}
	if node.broadcasts[0].Candidate.Kind != wire.KindSend {
		t.Errorf("unexpected kind %v", node.broadcasts[0].Candidate.Kind)
	}
	if node.balance.Raw() != "3000000" {
		t.Errorf("unexpected final balance %s", node.balance.Raw())
	}
}

// TestSessionRejectedCandidate ensures declining a candidate ends the session
// with nothing signed or broadcast.
func TestSessionRejectedCandidate(t *testing.T) {
	params := testNetParams()
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "5000000"),
		representative: testAddress(t, params, 0xbb).String(),
	}
	prompter := &scriptedPrompter{acceptBlocks: false, acceptReceives: true}
	harness := newSessionHarness(t, node, prompter, false)

	intent := Intent{Send: &SendIntent{
		Destination: testAddress(t, params, 0xdd),
		Amount:      rawAmount(t, "2000000"),
	}}
	if err := harness.session.Run(context.Background(), intent); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(node.broadcasts) != 0 {
		t.Errorf("rejected candidate was broadcast:\n%s",
			spew.Sdump(node.broadcasts))
	}
	if harness.sealer.calls != 0 {
		t.Errorf("rejected candidate was sealed %d time(s)",
			harness.sealer.calls)
	}
	if node.balance.Raw() != "5000000" {
		t.Errorf("unexpected balance %s", node.balance.Raw())
	}
}

// TestSessionSubmissionRejected ensures a node-side rejection surfaces as a
// submission failure and leaves the fake ledger untouched.
func TestSessionSubmissionRejected(t *testing.T) {
	params := testNetParams()
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "5000000"),
		representative: testAddress(t, params, 0xbb).String(),
		processErr:     fmt.Errorf("gap previous block"),
	}
	prompter := &scriptedPrompter{acceptBlocks: true, acceptReceives: true}
	harness := newSessionHarness(t, node, prompter, false)

	intent := Intent{Send: &SendIntent{
		Destination: testAddress(t, params, 0xdd),
		Amount:      rawAmount(t, "2000000"),
	}}
	err := harness.session.Run(context.Background(), intent)
	if !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrSubmissionRejected)
	}
	if node.frontier != testHash(0x22) {
		t.Errorf("frontier moved despite rejection: %v", node.frontier)
	}
}

// TestSessionAckMismatch ensures an acknowledgment hash that differs from the
// built block is treated as a remote inconsistency.
func TestSessionAckMismatch(t *testing.T) {
	params := testNetParams()
	wrongAck := testHash(0x99)
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "5000000"),
		representative: testAddress(t, params, 0xbb).String(),
		ackOverride:    &wrongAck,
	}
	prompter := &scriptedPrompter{acceptBlocks: true, acceptReceives: true}
	harness := newSessionHarness(t, node, prompter, false)

	intent := Intent{Send: &SendIntent{
		Destination: testAddress(t, params, 0xdd),
		Amount:      rawAmount(t, "2000000"),
	}}
	err := harness.session.Run(context.Background(), intent)
	if !errors.Is(err, ErrRemoteInconsistency) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrRemoteInconsistency)
	}
}

// TestSessionDryRun ensures a dry run presents one candidate and stops
// without working, signing, or broadcasting.
func TestSessionDryRun(t *testing.T) {
	params := testNetParams()
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "5000000"),
		representative: testAddress(t, params, 0xbb).String(),
		receivables: []receivableEntry{
			{testHash(0x31), rawAmount(t, "300000"), "sender-one"},
		},
	}
	prompter := &scriptedPrompter{acceptBlocks: true, acceptReceives: true}
	harness := newSessionHarness(t, node, prompter, true)

	if err := harness.session.Run(context.Background(), Intent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(prompter.confirmed) != 1 {
		t.Errorf("unexpected presented candidates -- got %d, want 1",
			len(prompter.confirmed))
	}
	if harness.work.calls != 0 || harness.sealer.calls != 0 {
		t.Errorf("dry run did work (%d) or sealed (%d)", harness.work.calls,
			harness.sealer.calls)
	}
	if len(node.broadcasts) != 0 {
		t.Errorf("dry run broadcast %d block(s)", len(node.broadcasts))
	}
}

// TestSessionHeavyRepresentative ensures a representative holding too much
// voting weight triggers a change suggestion and the accepted change is
// broadcast.
func TestSessionHeavyRepresentative(t *testing.T) {
	params := testNetParams()
	heavyRep := testAddress(t, params, 0xbb)
	lighterRep := testAddress(t, params, 0xee)
	node := &fakeNode{
		frontier:       testHash(0x22),
		balance:        rawAmount(t, "5000000"),
		representative: heavyRep.String(),
		weights: map[string]nanoutil.Amount{
			// Over 1% of the test network's supply of 1e15.
			heavyRep.String(): rawAmount(t, "20000000000000"),
		},
	}
	prompter := &scriptedPrompter{
		acceptBlocks:   true,
		acceptReceives: true,
		representative: lighterRep,
	}
	harness := newSessionHarness(t, node, prompter, false)

	if err := harness.session.Run(context.Background(), Intent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if prompter.repRequests != 1 {
		t.Errorf("unexpected representative requests -- got %d, want 1",
			prompter.repRequests)
	}
	if len(node.broadcasts) != 1 {
		t.Fatalf("unexpected broadcast count -- got %d, want 1",
			len(node.broadcasts))
	}
	if node.broadcasts[0].Candidate.Kind != wire.KindChange {
		t.Errorf("unexpected kind %v", node.broadcasts[0].Candidate.Kind)
	}
	if node.representative != lighterRep.String() {
		t.Errorf("unexpected representative %s", node.representative)
	}
	if node.balance.Raw() != "5000000" {
		t.Errorf("unexpected balance %s", node.balance.Raw())
	}
}
