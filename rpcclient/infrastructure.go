// Copyright (c) 2023-2024 The nanopy developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ConnConfig describes the connection configuration parameters for the
// client.  The value is copied at client construction and never mutated
// afterwards.
type ConnConfig struct {
	// Host is the RPC endpoint of the node, e.g. "http://localhost:7076".
	Host string

	// Headers are optional HTTP headers attached to every request, such
	// as authorization for hosted nodes.
	Headers map[string]string

	// HTTPClient optionally overrides the HTTP client used for requests.
	// When nil a client with a 30 second timeout is used.
	HTTPClient *http.Client
}

// Client represents a block-lattice node RPC client.  All requests are plain
// JSON documents carrying an "action" field POSTed to a single endpoint.
//
// The client is safe for concurrent use.
type Client struct {
	host       string
	headers    map[string]string
	httpClient *http.Client
}

// New creates a new RPC client based on the provided connection
// configuration.
func New(config *ConnConfig) (*Client, error) {
	host := config.Host
	if !strings.HasPrefix(host, "http://") &&
		!strings.HasPrefix(host, "https://") {

		str := fmt.Sprintf("host %q is not an http or https URL", host)
		return nil, makeError(ErrInvalidEndpoint, str, nil)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	headers := make(map[string]string, len(config.Headers))
	for k, v := range config.Headers {
		headers[k] = v
	}

	return &Client{
		host:       host,
		headers:    headers,
		httpClient: httpClient,
	}, nil
}

// Host returns the RPC endpoint the client talks to.
func (c *Client) Host() string {
	return c.host
}

// call POSTs the given action document to the node and decodes the response
// into reply.  Error reports from the node ("error" field in an otherwise
// valid response) are mapped onto typed errors so callers can distinguish
// them from transport and decoding failures.
func (c *Client) call(ctx context.Context, action string, params map[string]interface{}, reply interface{}) error {
	body := make(map[string]interface{}, len(params)+1)
	body["action"] = action
	for k, v := range params {
		body[k] = v
	}
	marshalled, err := json.Marshal(body)
	if err != nil {
		return makeError(ErrRequest, "marshalling "+action+" request", err)
	}

	log.Tracef("Sending %s request to %s", action, c.host)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host,
		bytes.NewReader(marshalled))
	if err != nil {
		return makeError(ErrRequest, "creating "+action+" request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		str := fmt.Sprintf("%s request to %s failed", action, c.host)
		return makeError(ErrConnection, str, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<24))
	if err != nil {
		str := fmt.Sprintf("reading %s response", action)
		return makeError(ErrConnection, str, err)
	}
	if resp.StatusCode != http.StatusOK {
		str := fmt.Sprintf("%s request returned status %s", action,
			resp.Status)
		return makeError(ErrConnection, str, nil)
	}

	// The node reports failures as a 200 response whose body carries an
	// "error" field, so probe for that before decoding the result.
	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		str := fmt.Sprintf("malformed %s response: %.80s", action, raw)
		return makeError(ErrMalformedResponse, str, err)
	}
	if probe.Error != "" {
		return nodeError(action, probe.Error)
	}

	if reply == nil {
		return nil
	}
	if err := json.Unmarshal(raw, reply); err != nil {
		str := fmt.Sprintf("malformed %s response: %.80s", action, raw)
		return makeError(ErrMalformedResponse, str, err)
	}
	return nil
}

// nodeError maps an error string reported by the node onto a typed error.
func nodeError(action, message string) error {
	kind := ErrRPCNode
	switch strings.ToLower(message) {
	case "account not found":
		kind = ErrAccountNotFound
	case "block not found":
		kind = ErrBlockNotFound
	case "is disabled", "rpc control is disabled", "work generation is disabled":
		kind = ErrDisabled
	}
	str := fmt.Sprintf("%s: node reported %q", action, message)
	return makeError(kind, str, nil)
}
