// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// BetaNetParams returns the network parameters for the nano beta network.
//
// The beta network runs the same protocol as mainnet with a much lower work
// requirement so that test blocks can be produced quickly on modest hardware.
func BetaNetParams() *Params {
	return &Params{
		Name:          "betanet",
		AddressPrefix: "nano_",
		Exponent:      30,
		DisplayUnit:   "NANO",

		SendWorkThreshold:    0xfffff00000000000,
		ReceiveWorkThreshold: 0xfffff00000000000,

		MaxSupply: mustBig(maxSupplyRaw),

		DefaultRPCServer: "http://localhost:55000",
		DefaultWSServer:  "ws://localhost:57000",
	}
}
