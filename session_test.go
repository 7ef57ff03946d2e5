// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import "testing"

func TestSessionLifecycle(t *testing.T) {
	priv, pub, err := GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}
	_, serverPub, err := GenKeyPair()
	if err != nil {
		t.Fatal(err)
	}

	var s Session
	if s.LoggedIn() {
		t.Fatal("fresh session reports logged in")
	}
	if _, ok := s.snapshot(); ok {
		t.Fatal("fresh session produced a snapshot")
	}

	s.SetKeys("alice", priv, pub, serverPub)
	if !s.LoggedIn() {
		t.Fatal("session not logged in after SetKeys")
	}
	keys, ok := s.snapshot()
	if !ok {
		t.Fatal("no snapshot after SetKeys")
	}
	if keys.id != "alice" || keys.priv != priv || keys.pub != pub || keys.serverPub != serverPub {
		t.Error("snapshot does not match installed keys")
	}

	s.Logout()
	if s.LoggedIn() {
		t.Fatal("session logged in after Logout")
	}
	if _, ok := s.snapshot(); ok {
		t.Fatal("snapshot available after Logout")
	}
}
