// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"errors"
	"fmt"
)

var (
	// ErrEncoding reports a wire value that cannot be decoded: a malformed
	// hex$ tag or an unparseable date$ timestamp.
	ErrEncoding = errors.New("sealrpc: wire encoding invalid")
	// ErrAuthenticationFailure reports an envelope that failed its
	// integrity/authenticity check: tampered ciphertext, a truncated
	// envelope, or a sender key that does not match the true sender.
	ErrAuthenticationFailure = errors.New("sealrpc: envelope authentication failed")
	// ErrNotAuthenticated reports an encrypted call attempted without
	// session keys. No network request is issued.
	ErrNotAuthenticated = errors.New("sealrpc: not authenticated")
	// ErrIdentityNotFound reports a caller identifier the user store cannot
	// resolve.
	ErrIdentityNotFound = errors.New("sealrpc: no such user")
	// ErrRateLimited reports a request rejected by admission control.
	ErrRateLimited = errors.New("sealrpc: rate limited")
	// ErrLimiterUnavailable reports a rate-limiter backend failure.
	ErrLimiterUnavailable = errors.New("sealrpc: rate limiter unavailable")
)

// RemoteCallError is returned by client calls that received a non-success
// HTTP status. It carries only the status code and status text; the server
// never sends internal error detail over the wire.
type RemoteCallError struct {
	StatusCode int
	Status     string
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("sealrpc: remote call failed: %s", e.Status)
}
