// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/npy0/nanopy/crypto/ed25519b"
	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/work"
)

// BlockKind identifies what a state block does to its account chain.
type BlockKind byte

// These constants enumerate the block kinds a wallet produces.  Every kind
// serializes as a universal state block; the kind decides the link semantics
// and which work threshold applies.
const (
	// KindOpen is the first block of an account chain.  It receives a
	// pending transfer and establishes the initial representative.
	KindOpen BlockKind = iota

	// KindSend debits the account, crediting the destination account
	// encoded in the link field.
	KindSend

	// KindReceive credits the account with the pending transfer whose
	// source block hash is in the link field.
	KindReceive

	// KindChange only changes the account's representative.  The link
	// field is zero.
	KindChange
)

// String returns the BlockKind in human-readable form.
func (k BlockKind) String() string {
	switch k {
	case KindOpen:
		return "open"
	case KindSend:
		return "send"
	case KindReceive:
		return "receive"
	case KindChange:
		return "change"
	}
	return fmt.Sprintf("unknown(%d)", byte(k))
}

// Subtype returns the state block subtype submission reports to the node so
// it can validate the block against the intended operation.
func (k BlockKind) Subtype() string {
	return k.String()
}

// statePreamble is the first 32 bytes of every state block hashing preimage.
// It is the number six, distinguishing state blocks from the four legacy
// block formats.
var statePreamble = [32]byte{31: 0x06}

// CandidateBlock is an unsigned block descriptor produced by the builder and
// consumed by signing.  It is immutable once produced: the post-state it
// describes (balance and representative after application) is fixed at build
// time from a single reconciled snapshot of the account.
type CandidateBlock struct {
	// Kind is the operation the block performs.
	Kind BlockKind

	// Account is the address of the chain the block extends.
	Account nanoutil.Address

	// Previous is the frontier the block builds on, or zero for the first
	// block of the account.
	Previous Hash

	// Representative is the account's voting delegate after this block.
	Representative nanoutil.Address

	// Balance is the account balance after this block.
	Balance nanoutil.Amount

	// Link carries the destination account public key for sends, the
	// source block hash for receives and opens, and zero for changes.
	Link Hash

	// LinkAddress is the decoded destination for send blocks.  It is
	// informational; Link is authoritative in the hashing preimage.
	LinkAddress nanoutil.Address

	// WorkThreshold is the minimum work value the network requires for
	// this block's class.
	WorkThreshold uint64
}

// Hash computes the blake2b-256 digest signing and the ledger identify the
// block by.
func (c *CandidateBlock) Hash() (Hash, error) {
	var hash Hash
	balance, err := c.Balance.Bytes16()
	if err != nil {
		return hash, err
	}

	h, err := blake2b.New256(nil)
	if err != nil {
		return hash, err
	}
	account := c.Account.PubKey()
	representative := c.Representative.PubKey()
	h.Write(statePreamble[:])
	h.Write(account[:])
	h.Write(c.Previous[:])
	h.Write(representative[:])
	h.Write(balance[:])
	h.Write(c.Link[:])
	copy(hash[:], h.Sum(nil))
	return hash, nil
}

// WorkRoot returns the value the block's proof of work must commit to: the
// previous block hash, or the account public key when there is no previous
// block yet.
func (c *CandidateBlock) WorkRoot() Hash {
	if c.Previous.IsZero() {
		return Hash(c.Account.PubKey())
	}
	return c.Previous
}

// Seal signs the candidate with the passed private key and attaches the
// work nonce, yielding a block ready for broadcast.  It refuses keys that do
// not own the candidate's account and nonces that do not meet the
// candidate's work threshold.
func (c *CandidateBlock) Seal(priv ed25519b.PrivateKey, nonce uint64) (*Block, error) {
	pub, err := ed25519b.Public(priv)
	if err != nil {
		return nil, err
	}
	if pub != ed25519b.PublicKey(c.Account.PubKey()) {
		return nil, fmt.Errorf("signing key does not own account %v",
			c.Account)
	}
	if !work.Check(c.WorkRoot(), nonce, c.WorkThreshold) {
		return nil, fmt.Errorf("work %016x does not meet threshold %016x",
			nonce, c.WorkThreshold)
	}

	hash, err := c.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := ed25519b.Sign(priv, hash[:])
	if err != nil {
		return nil, err
	}

	return &Block{Candidate: *c, Signature: sig, Work: nonce}, nil
}

// Block is a signed, work-attached block ready for submission.
type Block struct {
	// Candidate is the descriptor the block was sealed from.
	Candidate CandidateBlock

	// Signature is the ed25519-blake2b signature over the block hash.
	Signature [ed25519b.SignatureSize]byte

	// Work is the proof of work nonce.
	Work uint64
}

// blockJSON is the node wire form of a state block.
type blockJSON struct {
	Type           string `json:"type"`
	Account        string `json:"account"`
	Previous       string `json:"previous"`
	Representative string `json:"representative"`
	Balance        string `json:"balance"`
	Link           string `json:"link"`
	Signature      string `json:"signature"`
	Work           string `json:"work"`
}

// MarshalJSON implements json.Marshaler, rendering the block in the form the
// node's process RPC expects.
func (b *Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(&blockJSON{
		Type:           "state",
		Account:        b.Candidate.Account.String(),
		Previous:       b.Candidate.Previous.String(),
		Representative: b.Candidate.Representative.String(),
		Balance:        b.Candidate.Balance.Raw(),
		Link:           b.Candidate.Link.String(),
		Signature:      fmt.Sprintf("%0128X", b.Signature[:]),
		Work:           fmt.Sprintf("%016x", b.Work),
	})
}

// Hash returns the block hash.
func (b *Block) Hash() (Hash, error) {
	return b.Candidate.Hash()
}
