// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Transport issues a single request/response exchange for the client
// dispatcher. The default is HTTP POST; an alternate gRPC client transport
// is available behind the "grpc" build tag.
type Transport interface {
	// Post sends body to url and returns the response status code and the
	// raw response body. A non-2xx status is not an error at this layer;
	// the dispatcher decides how to surface it.
	Post(ctx context.Context, url string, body []byte) (int, []byte, error)
}

// httpTransport is the default Transport over net/http.
type httpTransport struct {
	client *http.Client
}

// newHTTPTransport wraps an HTTP client; a nil client gets a fresh one with
// connection reuse disabled, which avoids EOF errors under connection
// pooling in complex process hierarchies.
func newHTTPTransport(client *http.Client) *httpTransport {
	if client == nil {
		client = &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		}
	}
	return &httpTransport{client: client}
}

func (t *httpTransport) Post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to issue request: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		CleanlyCloseBody(resp.Body)
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}
	CleanlyCloseBody(resp.Body)
	return resp.StatusCode, data, nil
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}
