// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// TestNetParams returns the network parameters for the nano test network.
// The test network mirrors mainnet work requirements but runs on its own
// ledger, so funds on it carry no value.
func TestNetParams() *Params {
	return &Params{
		Name:          "testnet",
		AddressPrefix: "nano_",
		Exponent:      30,
		DisplayUnit:   "NANO",

		SendWorkThreshold:    0xfffffff800000000,
		ReceiveWorkThreshold: 0xfffffe0000000000,

		MaxSupply: mustBig(maxSupplyRaw),

		DefaultRPCServer: "http://localhost:17076",
		DefaultWSServer:  "ws://localhost:17078",
	}
}
