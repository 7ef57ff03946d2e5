// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"crypto/rand"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// nonceSize is the nonce length required by NaCl box.
const nonceSize = 24

// Seal wire-encodes v, serializes it to JSON, and authenticated-encrypts
// the serialized bytes to the recipient under the sender's private key.
// The returned envelope is the fresh random nonce followed by the
// ciphertext. Every call draws a new nonce; envelopes for the same value
// and keys are never equal.
func Seal(v any, recipient Pubkey, sender Privkey) ([]byte, error) {
	plaintext, err := json.Marshal(Encode(v))
	if err != nil {
		return nil, fmt.Errorf("seal: %w", err)
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("seal: reading nonce entropy: %w", err)
	}
	pub := [32]byte(recipient)
	priv := [32]byte(sender)
	return box.Seal(nonce[:], plaintext, &nonce, &pub, &priv), nil
}

// Open splits an envelope into its nonce prefix and ciphertext,
// authenticated-decrypts it using the claimed sender's public key and the
// recipient's private key, and recovers the original value. A truncated
// envelope, tampered ciphertext, or mismatched key pair fails with
// ErrAuthenticationFailure; no partial plaintext is ever returned.
func Open(envelope []byte, sender Pubkey, recipient Privkey) (any, error) {
	if len(envelope) < nonceSize {
		return nil, fmt.Errorf("%w: envelope shorter than nonce", ErrAuthenticationFailure)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], envelope[:nonceSize])
	pub := [32]byte(sender)
	priv := [32]byte(recipient)
	plaintext, ok := box.Open(nil, envelope[nonceSize:], &nonce, &pub, &priv)
	if !ok {
		return nil, ErrAuthenticationFailure
	}
	var wire any
	if err := json.Unmarshal(plaintext, &wire); err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return Decode(wire)
}
