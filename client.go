// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultPrefix is the path prefix under which endpoints are routed.
// Client and server must agree on it.
const DefaultPrefix = "/rpc"

// CallFunc is a bound endpoint call. A nil input is permitted for void
// endpoints; concurrent invocations are safe.
type CallFunc func(ctx context.Context, input any) (any, error)

// Client is the client-side dispatcher. It turns endpoint descriptors into
// callable functions and holds the session state used by encrypted calls.
type Client struct {
	baseURL   string
	prefix    string
	transport Transport
	validator Validator
	session   *Session
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient supplies the HTTP client used by the default transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.transport = newHTTPTransport(hc) }
}

// WithClientTransport replaces the transport entirely.
func WithClientTransport(t Transport) ClientOption {
	return func(c *Client) { c.transport = t }
}

// WithPrefix overrides the endpoint path prefix.
func WithPrefix(prefix string) ClientOption {
	return func(c *Client) { c.prefix = prefix }
}

// WithClientValidator installs a validator checked against each call's
// output kind.
func WithClientValidator(v Validator) ClientOption {
	return func(c *Client) { c.validator = v }
}

// NewClient creates a client dispatcher for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		prefix:    DefaultPrefix,
		validator: acceptAll{},
		session:   &Session{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = newHTTPTransport(nil)
	}
	return c
}

// Session returns the client's session state.
func (c *Client) Session() *Session { return c.session }

// SetKeys installs session keys; see Session.SetKeys.
func (c *Client) SetKeys(id string, priv Privkey, pub Pubkey, serverPub Pubkey) {
	c.session.SetKeys(id, priv, pub, serverPub)
}

// Logout clears session keys; see Session.Logout.
func (c *Client) Logout() { c.session.Logout() }

// LoggedIn reports whether session keys are present.
func (c *Client) LoggedIn() bool { return c.session.LoggedIn() }

// Call binds a plaintext endpoint. The returned function encodes its input,
// posts it, and decodes the response. Any non-success status surfaces as a
// *RemoteCallError carrying the status text only.
func (c *Client) Call(d Descriptor) CallFunc {
	url := c.endpointURL(d.Name)
	return func(ctx context.Context, input any) (any, error) {
		body, err := json.Marshal(Encode(input))
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", d.Name, err)
		}
		respBody, err := c.post(ctx, url, body)
		if err != nil {
			return nil, err
		}
		out, err := decodeBody(respBody)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", d.Name, err)
		}
		if err := c.validator.Validate(d.Output, out); err != nil {
			return nil, fmt.Errorf("call %s: output: %w", d.Name, err)
		}
		return out, nil
	}
}

// rpcPayload is the wire message for encrypted calls. The identifier stays
// in plaintext: the server needs it to resolve the sender's public key
// before it can decrypt anything.
type rpcPayload struct {
	ID      string `json:"id"`
	Payload any    `json:"payload"`
}

// EncryptedCall binds an encrypted endpoint. The returned function fails
// fast with ErrNotAuthenticated while the session is absent, otherwise
// seals the input to the server and opens the server's sealed response.
func (c *Client) EncryptedCall(d Descriptor) CallFunc {
	url := c.endpointURL(d.Name)
	return func(ctx context.Context, input any) (any, error) {
		keys, ok := c.session.snapshot()
		if !ok {
			return nil, ErrNotAuthenticated
		}
		if input == nil {
			// The wire format cannot represent "no value" as a
			// top-level message.
			input = map[string]any{}
		}
		envelope, err := Seal(input, keys.serverPub, keys.priv)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", d.Name, err)
		}
		body, err := json.Marshal(rpcPayload{ID: keys.id, Payload: Encode(envelope)})
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", d.Name, err)
		}
		respBody, err := c.post(ctx, url, body)
		if err != nil {
			return nil, err
		}
		sealed, err := decodeBody(respBody)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", d.Name, err)
		}
		sealedBytes, ok := sealed.([]byte)
		if !ok {
			return nil, fmt.Errorf("call %s: %w: response is not an envelope", d.Name, ErrEncoding)
		}
		out, err := Open(sealedBytes, keys.serverPub, keys.priv)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", d.Name, err)
		}
		if err := c.validator.Validate(d.Output, out); err != nil {
			return nil, fmt.Errorf("call %s: output: %w", d.Name, err)
		}
		return out, nil
	}
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	status, respBody, err := c.transport.Post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		// The server's error body is a generic encoded object carrying no
		// internal detail, so only the status is surfaced.
		return nil, &RemoteCallError{
			StatusCode: status,
			Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		}
	}
	return respBody, nil
}

func (c *Client) endpointURL(name string) string {
	return c.baseURL + c.prefix + "/" + name
}

// decodeBody parses a JSON response body and decodes it as a wire value.
func decodeBody(body []byte) (any, error) {
	var wire any
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, err
	}
	return Decode(wire)
}
