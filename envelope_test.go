// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

func testKeyPairs(t *testing.T) (aPriv Privkey, aPub Pubkey, bPriv Privkey, bPub Pubkey) {
	t.Helper()
	var err error
	aPriv, aPub, err = GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	bPriv, bPub, err = GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestSealOpenRoundTrip(t *testing.T) {
	aPriv, aPub, bPriv, bPub := testKeyPairs(t)

	v := map[string]any{
		"who":   "alice",
		"blob":  []byte{1, 2, 3},
		"since": time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		"tags":  []any{"a", true, nil},
	}
	env, err := Seal(v, bPub, aPriv)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := Open(env, aPub, bPriv)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !wireEqual(v, got) {
		t.Errorf("got %#v, want %#v", got, v)
	}
}

func TestSealNonceFreshness(t *testing.T) {
	aPriv, aPub, bPriv, bPub := testKeyPairs(t)

	env1, err := Seal("same value", bPub, aPriv)
	if err != nil {
		t.Fatal(err)
	}
	env2, err := Seal("same value", bPub, aPriv)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(env1, env2) {
		t.Fatal("two seals of the same value produced identical envelopes")
	}
	for _, env := range [][]byte{env1, env2} {
		got, err := Open(env, aPub, bPriv)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if got != "same value" {
			t.Errorf("got %v", got)
		}
	}
}

func TestOpenMismatchedSenderKey(t *testing.T) {
	aPriv, _, bPriv, bPub := testKeyPairs(t)
	_, mallory, err := GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	env, err := Seal(true, bPub, aPriv)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Open(env, mallory, bPriv); !errors.Is(err, ErrAuthenticationFailure) {
		t.Errorf("got %v, want ErrAuthenticationFailure", err)
	}
}

func TestOpenTamperedCiphertext(t *testing.T) {
	aPriv, aPub, bPriv, bPub := testKeyPairs(t)

	env, err := Seal(map[string]any{"n": float64(1)}, bPub, aPriv)
	if err != nil {
		t.Fatal(err)
	}
	env[len(env)-1] ^= 0x01
	if _, err := Open(env, aPub, bPriv); !errors.Is(err, ErrAuthenticationFailure) {
		t.Errorf("got %v, want ErrAuthenticationFailure", err)
	}
}

func TestOpenTruncatedEnvelope(t *testing.T) {
	_, aPub, bPriv, _ := testKeyPairs(t)

	if _, err := Open([]byte{1, 2, 3}, aPub, bPriv); !errors.Is(err, ErrAuthenticationFailure) {
		t.Errorf("got %v, want ErrAuthenticationFailure", err)
	}
}
