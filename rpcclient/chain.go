// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/npy0/nanopy/nanoutil"
	"github.com/npy0/nanopy/wire"
)

// AccountInfo is the parsed result of an account_info request: the node's
// current view of an account's chain head.
type AccountInfo struct {
	// Frontier is the hash of the latest block on the account chain.
	Frontier wire.Hash

	// Balance is the confirmed balance at the frontier.
	Balance nanoutil.Amount

	// Representative is the textual address of the account's voting
	// delegate.
	Representative string

	// BlockCount is the number of blocks on the account chain.
	BlockCount uint64
}

// AccountInfo requests the node's view of the account's chain head.  A node
// that has never seen a block for the account fails with ErrAccountNotFound,
// which callers treat as "account not yet opened".
func (c *Client) AccountInfo(ctx context.Context, account string) (*AccountInfo, error) {
	var resp struct {
		Frontier       string `json:"frontier"`
		Balance        string `json:"balance"`
		Representative string `json:"representative"`
		BlockCount     string `json:"block_count"`
	}
	params := map[string]interface{}{
		"account":        account,
		"representative": true,
	}
	if err := c.call(ctx, "account_info", params, &resp); err != nil {
		return nil, err
	}

	frontier, err := wire.NewHashFromStr(resp.Frontier)
	if err != nil {
		str := fmt.Sprintf("account_info frontier %q", resp.Frontier)
		return nil, makeError(ErrMalformedResponse, str, err)
	}
	balance, err := nanoutil.AmountFromRaw(resp.Balance)
	if err != nil {
		str := fmt.Sprintf("account_info balance %q", resp.Balance)
		return nil, makeError(ErrMalformedResponse, str, err)
	}
	if resp.Representative == "" {
		return nil, makeError(ErrMalformedResponse,
			"account_info response missing representative", nil)
	}
	var blockCount uint64
	if resp.BlockCount != "" {
		blockCount, err = strconv.ParseUint(resp.BlockCount, 10, 64)
		if err != nil {
			str := fmt.Sprintf("account_info block_count %q", resp.BlockCount)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
	}

	return &AccountInfo{
		Frontier:       frontier,
		Balance:        balance,
		Representative: resp.Representative,
		BlockCount:     blockCount,
	}, nil
}

// Receivable requests up to count unclaimed incoming transfers for the
// account, returning their source block hashes in the order the node
// delivered them.  Accounts with nothing receivable yield an empty slice,
// not an error.
func (c *Client) Receivable(ctx context.Context, account string, count int) ([]wire.Hash, error) {
	var resp struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	params := map[string]interface{}{
		"account": account,
		"count":   strconv.Itoa(count),
	}
	if err := c.call(ctx, "pending", params, &resp); err != nil {
		return nil, err
	}

	// Nodes encode "nothing receivable" as an empty string rather than an
	// empty array.
	if string(resp.Blocks) == `""` || len(resp.Blocks) == 0 {
		return nil, nil
	}
	var hashStrs []string
	if err := json.Unmarshal(resp.Blocks, &hashStrs); err != nil {
		str := fmt.Sprintf("pending blocks %.80s", resp.Blocks)
		return nil, makeError(ErrMalformedResponse, str, err)
	}

	hashes := make([]wire.Hash, 0, len(hashStrs))
	for _, hashStr := range hashStrs {
		hash, err := wire.NewHashFromStr(hashStr)
		if err != nil {
			str := fmt.Sprintf("pending block hash %q", hashStr)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// BlockInfo is the parsed result of a block_info request for a single block.
type BlockInfo struct {
	// BlockAccount is the textual address of the account that produced
	// the block.
	BlockAccount string

	// Amount is the value the block moved, when it moved one.
	Amount nanoutil.Amount

	// Subtype is the state block subtype reported by the node.
	Subtype string

	// Confirmed indicates whether the network has confirmed the block.
	Confirmed bool
}

// BlockInfo requests details of a single block by hash.  For a transfer's
// source block, Amount is the transferred value and BlockAccount the sender.
func (c *Client) BlockInfo(ctx context.Context, hash wire.Hash) (*BlockInfo, error) {
	var resp struct {
		BlockAccount string `json:"block_account"`
		Amount       string `json:"amount"`
		Subtype      string `json:"subtype"`
		Confirmed    string `json:"confirmed"`
	}
	params := map[string]interface{}{
		"hash":       hash.String(),
		"json_block": true,
	}
	if err := c.call(ctx, "block_info", params, &resp); err != nil {
		return nil, err
	}

	amount, err := nanoutil.AmountFromRaw(resp.Amount)
	if err != nil {
		str := fmt.Sprintf("block_info amount %q", resp.Amount)
		return nil, makeError(ErrMalformedResponse, str, err)
	}

	return &BlockInfo{
		BlockAccount: resp.BlockAccount,
		Amount:       amount,
		Subtype:      resp.Subtype,
		Confirmed:    resp.Confirmed == "true",
	}, nil
}

// BlocksInfo requests details of a batch of blocks in one round trip.  The
// result maps each requested hash to its details; hashes the node does not
// know are absent from the map.
func (c *Client) BlocksInfo(ctx context.Context, hashes []wire.Hash) (map[wire.Hash]*BlockInfo, error) {
	infos := make(map[wire.Hash]*BlockInfo, len(hashes))
	if len(hashes) == 0 {
		return infos, nil
	}

	var resp struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	hashStrs := make([]string, 0, len(hashes))
	for _, hash := range hashes {
		hashStrs = append(hashStrs, hash.String())
	}
	params := map[string]interface{}{
		"hashes":     hashStrs,
		"json_block": true,
	}
	if err := c.call(ctx, "blocks_info", params, &resp); err != nil {
		return nil, err
	}

	// An empty result set is encoded as an empty string, like "pending".
	if string(resp.Blocks) == `""` || len(resp.Blocks) == 0 {
		return infos, nil
	}
	var entries map[string]struct {
		BlockAccount string `json:"block_account"`
		Amount       string `json:"amount"`
		Subtype      string `json:"subtype"`
		Confirmed    string `json:"confirmed"`
	}
	if err := json.Unmarshal(resp.Blocks, &entries); err != nil {
		str := fmt.Sprintf("blocks_info blocks %.80s", resp.Blocks)
		return nil, makeError(ErrMalformedResponse, str, err)
	}

	for hashStr, entry := range entries {
		hash, err := wire.NewHashFromStr(hashStr)
		if err != nil {
			str := fmt.Sprintf("blocks_info hash %q", hashStr)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		amount, err := nanoutil.AmountFromRaw(entry.Amount)
		if err != nil {
			str := fmt.Sprintf("blocks_info amount %q", entry.Amount)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		infos[hash] = &BlockInfo{
			BlockAccount: entry.BlockAccount,
			Amount:       amount,
			Subtype:      entry.Subtype,
			Confirmed:    entry.Confirmed == "true",
		}
	}
	return infos, nil
}

// AccountBalance pairs an account's settled balance with the total of its
// still-unclaimed incoming transfers.
type AccountBalance struct {
	Balance    nanoutil.Amount
	Receivable nanoutil.Amount
}

// AccountsBalances requests balances for a batch of accounts in one round
// trip.  Accounts unknown to the node report zero balances.
func (c *Client) AccountsBalances(ctx context.Context, accounts []string) (map[string]AccountBalance, error) {
	var resp struct {
		Balances map[string]struct {
			Balance    string `json:"balance"`
			Pending    string `json:"pending"`
			Receivable string `json:"receivable"`
		} `json:"balances"`
	}
	params := map[string]interface{}{
		"accounts": accounts,
	}
	if err := c.call(ctx, "accounts_balances", params, &resp); err != nil {
		return nil, err
	}

	balances := make(map[string]AccountBalance, len(resp.Balances))
	for account, entry := range resp.Balances {
		balance, err := nanoutil.AmountFromRaw(entry.Balance)
		if err != nil {
			str := fmt.Sprintf("accounts_balances balance %q", entry.Balance)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		// Older nodes report the receivable total under "pending".
		rawReceivable := entry.Receivable
		if rawReceivable == "" {
			rawReceivable = entry.Pending
		}
		receivable, err := nanoutil.AmountFromRaw(rawReceivable)
		if err != nil {
			str := fmt.Sprintf("accounts_balances receivable %q",
				rawReceivable)
			return nil, makeError(ErrMalformedResponse, str, err)
		}
		balances[account] = AccountBalance{
			Balance:    balance,
			Receivable: receivable,
		}
	}
	return balances, nil
}

// AccountWeight requests the voting weight delegated to the account.
func (c *Client) AccountWeight(ctx context.Context, account string) (nanoutil.Amount, error) {
	var resp struct {
		Weight string `json:"weight"`
	}
	params := map[string]interface{}{
		"account": account,
	}
	if err := c.call(ctx, "account_weight", params, &resp); err != nil {
		return nanoutil.Amount{}, err
	}

	weight, err := nanoutil.AmountFromRaw(resp.Weight)
	if err != nil {
		str := fmt.Sprintf("account_weight weight %q", resp.Weight)
		return nanoutil.Amount{}, makeError(ErrMalformedResponse, str, err)
	}
	return weight, nil
}

// Process submits a signed block to the node for broadcast.  The subtype
// tells the node which operation the block is expected to perform so that
// misconstructed blocks are rejected instead of applied.  The node's
// acknowledgment hash is returned; submission failures surface as
// ErrRPCNode errors with the node's reason.
func (c *Client) Process(ctx context.Context, block *wire.Block, subtype string) (wire.Hash, error) {
	var resp struct {
		Hash string `json:"hash"`
	}
	params := map[string]interface{}{
		"json_block": true,
		"subtype":    subtype,
		"block":      block,
	}
	if err := c.call(ctx, "process", params, &resp); err != nil {
		return wire.Hash{}, err
	}

	// An acknowledgment without a hash is malformed: the caller must not
	// treat the block as broadcast.
	hash, err := wire.NewHashFromStr(resp.Hash)
	if err != nil {
		str := fmt.Sprintf("process acknowledgment hash %q", resp.Hash)
		return wire.Hash{}, makeError(ErrMalformedResponse, str, err)
	}
	return hash, nil
}

// ProcessRaw submits an externally produced block, given in the node's JSON
// wire form, without validating it locally.  The node infers the subtype.
func (c *Client) ProcessRaw(ctx context.Context, block json.RawMessage) (wire.Hash, error) {
	var resp struct {
		Hash string `json:"hash"`
	}
	params := map[string]interface{}{
		"json_block": true,
		"block":      block,
	}
	if err := c.call(ctx, "process", params, &resp); err != nil {
		return wire.Hash{}, err
	}

	hash, err := wire.NewHashFromStr(resp.Hash)
	if err != nil {
		str := fmt.Sprintf("process acknowledgment hash %q", resp.Hash)
		return wire.Hash{}, makeError(ErrMalformedResponse, str, err)
	}
	return hash, nil
}

// WorkGenerate asks the node to solve proof of work for the given root at
// the given threshold.  Public nodes commonly disable this, in which case
// the error wraps ErrDisabled or ErrRPCNode and the caller should fall back
// to solving locally.
func (c *Client) WorkGenerate(ctx context.Context, root wire.Hash, threshold uint64) (uint64, error) {
	var resp struct {
		Work string `json:"work"`
	}
	params := map[string]interface{}{
		"hash":       root.String(),
		"difficulty": fmt.Sprintf("%016x", threshold),
	}
	if err := c.call(ctx, "work_generate", params, &resp); err != nil {
		return 0, err
	}

	nonce, err := strconv.ParseUint(resp.Work, 16, 64)
	if err != nil {
		str := fmt.Sprintf("work_generate work %q", resp.Work)
		return 0, makeError(ErrMalformedResponse, str, err)
	}
	return nonce, nil
}

// Version reports the software identity of the node, useful for connection
// diagnostics.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp struct {
		NodeVendor string `json:"node_vendor"`
	}
	if err := c.call(ctx, "version", nil, &resp); err != nil {
		return "", err
	}
	return resp.NodeVendor, nil
}
