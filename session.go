// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import "sync"

// Session is the client-held identity and key material establishing
// "logged in" status. It is either fully present or fully absent; no
// partial state is observable between calls. In-flight calls only read it,
// so concurrent calls sharing one Session are safe; SetKeys and Logout are
// not expected to race with in-flight calls.
type Session struct {
	mu        sync.RWMutex
	present   bool
	id        string
	priv      Privkey
	pub       Pubkey
	serverPub Pubkey
}

// sessionKeys is a consistent read of the session taken at call time.
type sessionKeys struct {
	id        string
	priv      Privkey
	pub       Pubkey
	serverPub Pubkey
}

// SetKeys atomically installs the caller identifier, the caller key pair,
// and the server's public key. The session is logged in afterwards.
func (s *Session) SetKeys(id string, priv Privkey, pub Pubkey, serverPub Pubkey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.priv = priv
	s.pub = pub
	s.serverPub = serverPub
	s.present = true
}

// Logout atomically clears all fields back to the absent state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = ""
	s.priv = Privkey{}
	s.pub = Pubkey{}
	s.serverPub = Pubkey{}
	s.present = false
}

// LoggedIn reports whether all session fields are present.
func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.present
}

func (s *Session) snapshot() (sessionKeys, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.present {
		return sessionKeys{}, false
	}
	return sessionKeys{id: s.id, priv: s.priv, pub: s.pub, serverPub: s.serverPub}, true
}
