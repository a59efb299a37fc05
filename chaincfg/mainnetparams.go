// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

// MainNetParams returns the network parameters for the main nano network.
func MainNetParams() *Params {
	return &Params{
		Name:                  "mainnet",
		AddressPrefix:         "nano_",
		LegacyAddressPrefixes: []string{"xrb_"},
		Exponent:              30,
		DisplayUnit:           "NANO",

		// The send-class threshold was raised 8x over the original
		// base threshold in the v21 epoch while the receive class was
		// lowered 64x below it.
		SendWorkThreshold:    0xfffffff800000000,
		ReceiveWorkThreshold: 0xfffffe0000000000,

		MaxSupply: mustBig(maxSupplyRaw),

		DefaultRPCServer: "http://localhost:7076",
		DefaultWSServer:  "ws://localhost:7078",
	}
}
