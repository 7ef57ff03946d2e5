// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import "testing"

func TestKeyStringRoundTrip(t *testing.T) {
	priv, pub, err := GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	gotPriv, err := PrivkeyFromString(priv.String())
	if err != nil {
		t.Fatalf("PrivkeyFromString: %v", err)
	}
	if gotPriv != priv {
		t.Error("private key did not round trip")
	}

	gotPub, err := PubkeyFromString(pub.String())
	if err != nil {
		t.Fatalf("PubkeyFromString: %v", err)
	}
	if gotPub != pub {
		t.Error("public key did not round trip")
	}
}

func TestKeyStringKindMismatch(t *testing.T) {
	priv, pub, err := GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := PrivkeyFromString(pub.String()); err == nil {
		t.Error("expected error parsing a public key as private")
	}
	if _, err := PubkeyFromString(priv.String()); err == nil {
		t.Error("expected error parsing a private key as public")
	}
}

func TestKeyStringInvalid(t *testing.T) {
	for _, s := range []string{"", "x", "Ptooshort", "p%%%not-base64%%%"} {
		if _, err := PubkeyFromString(s); err == nil {
			t.Errorf("PubkeyFromString(%q): expected error", s)
		}
	}
}
