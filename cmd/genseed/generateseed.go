// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/npy0/nanopy/chaincfg"
	"github.com/npy0/nanopy/crypto/ed25519b"
	"github.com/npy0/nanopy/nanoutil"
)

var (
	showAddr = flag.Bool("addr", false, "Also print the address of the seed's first account")
	testnet  = flag.Bool("testnet", false, "Derive the printed address for the test network")
)

func main() {
	flag.Parse()

	seed, err := ed25519b.NewSeed()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer seed.Zero()
	fmt.Printf("%064X\n", seed[:])

	if !*showAddr {
		return
	}
	params := chaincfg.MainNetParams()
	if *testnet {
		params = chaincfg.TestNetParams()
	}
	priv := ed25519b.DeriveKey(seed, 0)
	pub, err := ed25519b.Public(priv)
	priv.Zero()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	addr, err := nanoutil.NewAddressPubKey(pub[:], params)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("%v\n", addr)
}
