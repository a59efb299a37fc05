// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package rpcclient implements a block-lattice node RPC client.

The node protocol is a single HTTP endpoint accepting JSON documents whose
"action" field names the request.  The client exposes the actions a wallet
needs as typed methods (AccountInfo, Receivable, BlockInfo,
AccountsBalances, AccountWeight, Process, WorkGenerate), parsing hashes and
raw amounts into their exact domain types and mapping node-reported errors
onto typed error kinds so callers can distinguish "account not found" from a
broken endpoint or a rejected submission.

A Notifier additionally subscribes to the node's websocket confirmation
topic, letting a caller block until the network confirms a submitted block.
*/
package rpcclient
