// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

// Privkey is an opaque Curve25519 private key.
type Privkey [32]byte

// Pubkey is an opaque Curve25519 public key.
type Pubkey [32]byte

// GenKeyPair generates a fresh private/public key pair.
//
// It is safe to invoke this function concurrently.
func GenKeyPair() (Privkey, Pubkey, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return Privkey{}, Pubkey{}, err
	}
	return Privkey(*priv), Pubkey(*pub), nil
}

// String renders the private key as the letter "p" plus a base64 rendering
// of its 32 bytes.
func (k Privkey) String() string {
	return "p" + base64.StdEncoding.EncodeToString(k[:])
}

// String renders the public key as the letter "P" plus a base64 rendering
// of its 32 bytes.
func (k Pubkey) String() string {
	return "P" + base64.StdEncoding.EncodeToString(k[:])
}

// PrivkeyFromString deserializes a Privkey from its string form.
// See Privkey.String for the format.
func PrivkeyFromString(s string) (Privkey, error) {
	b, err := keyFromString(s, 'p', 'P')
	return Privkey(b), err
}

// PubkeyFromString deserializes a Pubkey from its string form.
// See Pubkey.String for the format.
func PubkeyFromString(s string) (Pubkey, error) {
	b, err := keyFromString(s, 'P', 'p')
	return Pubkey(b), err
}

func keyFromString(s string, want, other byte) (k [32]byte, err error) {
	if len(s) < 1 {
		return k, fmt.Errorf("key is too short")
	}
	if s[0] != want {
		if s[0] == other {
			return k, fmt.Errorf("key %s is of the opposite kind", s)
		}
		return k, fmt.Errorf("key %s is not valid", s)
	}
	data, err := base64.StdEncoding.DecodeString(s[1:])
	if err != nil {
		return k, err
	}
	if len(data) != 32 {
		return k, fmt.Errorf("key %s does not decode to 32 bytes", s)
	}
	copy(k[:], data)
	return k, nil
}
