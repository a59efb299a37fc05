// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import (
	"math/big"
)

// Params defines a nano-style block-lattice network by its parameters.  The
// parameters are fixed at construction and must never be mutated afterwards,
// so a single instance may safely be shared by any number of callers.
type Params struct {
	// Name defines a human-readable identifier for the network.
	Name string

	// AddressPrefix is the prefix new account addresses are encoded with.
	AddressPrefix string

	// LegacyAddressPrefixes lists additional prefixes accepted when
	// decoding addresses.  The mainnet retains its original "xrb_" prefix
	// here since funds received before the rebrand still live on accounts
	// written that way.
	LegacyAddressPrefixes []string

	// Exponent is the number of decimal digits of the smallest indivisible
	// unit (raw) that make up one display unit.
	Exponent uint

	// DisplayUnit is the ticker symbol of the display unit.
	DisplayUnit string

	// SendWorkThreshold is the minimum proof of work value the network
	// accepts for send and change blocks.
	SendWorkThreshold uint64

	// ReceiveWorkThreshold is the minimum proof of work value the network
	// accepts for receive and open blocks.  It is lower than the send
	// threshold on networks with dynamic work prioritization.
	ReceiveWorkThreshold uint64

	// MaxSupply is the total amount of raw that can ever exist.  It caps
	// representative voting weight calculations.
	MaxSupply *big.Int

	// DefaultRPCServer is the RPC endpoint of a node serving this network.
	DefaultRPCServer string

	// DefaultWSServer is the websocket endpoint of a node serving this
	// network, used for block confirmation subscriptions.
	DefaultWSServer string
}

// AcceptedPrefixes returns every address prefix decoding recognizes for the
// network, with the canonical prefix first.
func (p *Params) AcceptedPrefixes() []string {
	prefixes := make([]string, 0, len(p.LegacyAddressPrefixes)+1)
	prefixes = append(prefixes, p.AddressPrefix)
	prefixes = append(prefixes, p.LegacyAddressPrefixes...)
	return prefixes
}

// maxSupplyRaw is the circulating raw supply after the genesis burn, common
// to the main and test networks.  Address and voting weight ratios are
// computed against this value.
const maxSupplyRaw = "133248289196499221154116917710445381553"

// mustBig converts the passed base-10 string to a big integer and panics if
// it is malformed.  It is only intended for hard-coded constants.
func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("chaincfg: malformed hard-coded integer " + s)
	}
	return n
}
