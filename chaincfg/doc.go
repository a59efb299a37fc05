// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package chaincfg defines block-lattice network parameters.

Every network a wallet or tool can talk to is described by a Params value
holding its address prefix, display unit exponent, proof of work thresholds,
and default node endpoints.  Rather than relying on process-wide mutable
configuration, callers obtain a Params from one of the constructors
(MainNetParams, TestNetParams, BetaNetParams) and thread it explicitly through
every call that needs network constants.  Params values are never modified
after construction.
*/
package chaincfg
