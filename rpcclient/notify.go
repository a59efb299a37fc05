// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/npy0/nanopy/wire"
)

// ConfirmationNtfn describes a block the network has confirmed for one of
// the accounts a notifier subscribed to.
type ConfirmationNtfn struct {
	// Account is the textual address of the account the block belongs to.
	Account string

	// Hash is the confirmed block hash.
	Hash wire.Hash

	// Subtype is the confirmed block's state subtype.
	Subtype string
}

// Notifier delivers block confirmation notifications over a node websocket.
// It is not safe for concurrent use; a session owns one notifier.
type Notifier struct {
	conn *websocket.Conn
}

// NewNotifier dials the node websocket endpoint and subscribes to block
// confirmations for the given accounts.
func NewNotifier(ctx context.Context, wsHost string, accounts []string) (*Notifier, error) {
	if !strings.HasPrefix(wsHost, "ws://") &&
		!strings.HasPrefix(wsHost, "wss://") {

		str := fmt.Sprintf("host %q is not a ws or wss URL", wsHost)
		return nil, makeError(ErrInvalidEndpoint, str, nil)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsHost, nil)
	if err != nil {
		str := fmt.Sprintf("dialing websocket %s", wsHost)
		return nil, makeError(ErrConnection, str, err)
	}

	sub := map[string]interface{}{
		"action": "subscribe",
		"topic":  "confirmation",
		"options": map[string]interface{}{
			"accounts": accounts,
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		conn.Close()
		return nil, makeError(ErrConnection, "subscribing to confirmations",
			err)
	}

	log.Debugf("Subscribed to confirmations for %d account(s) via %s",
		len(accounts), wsHost)
	return &Notifier{conn: conn}, nil
}

// Close tears down the websocket connection.
func (n *Notifier) Close() error {
	return n.conn.Close()
}

// confirmationMsg is the wire form of a confirmation topic message.
type confirmationMsg struct {
	Topic   string `json:"topic"`
	Message struct {
		Account string `json:"account"`
		Hash    string `json:"hash"`
		Block   struct {
			Subtype string `json:"subtype"`
		} `json:"block"`
	} `json:"message"`
}

// Next blocks until the node delivers the next confirmation, the deadline
// passes, or the context is canceled.  Non-confirmation frames such as
// subscription acks and keepalives are skipped.
func (n *Notifier) Next(ctx context.Context, deadline time.Time) (*ConfirmationNtfn, error) {
	if err := n.conn.SetReadDeadline(deadline); err != nil {
		return nil, makeError(ErrConnection, "setting read deadline", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, raw, err := n.conn.ReadMessage()
		if err != nil {
			return nil, makeError(ErrConnection,
				"reading confirmation notification", err)
		}

		var msg confirmationMsg
		if err := json.Unmarshal(raw, &msg); err != nil {
			str := fmt.Sprintf("malformed notification: %.80s", raw)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		if msg.Topic != "confirmation" {
			continue
		}

		hash, err := wire.NewHashFromStr(msg.Message.Hash)
		if err != nil {
			str := fmt.Sprintf("notification hash %q", msg.Message.Hash)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		return &ConfirmationNtfn{
			Account: msg.Message.Account,
			Hash:    hash,
			Subtype: msg.Message.Block.Subtype,
		}, nil
	}
}

// AwaitConfirmation blocks until the network confirms the given block hash
// or the timeout elapses.  Confirmations for other blocks of the subscribed
// accounts are consumed and skipped.
func (n *Notifier) AwaitConfirmation(ctx context.Context, hash wire.Hash, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ntfn, err := n.Next(ctx, deadline)
		if err != nil {
			return err
		}
		if ntfn.Hash == hash {
			log.Debugf("Block %v confirmed", hash)
			return nil
		}
	}
}
