// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"

	"github.com/google/uuid"
)

// Identity is the server-side record for a caller, resolved per encrypted
// request by the application's lookup collaborator. It is never cached by
// the dispatcher.
type Identity struct {
	ID  string
	Key Pubkey
}

// IdentityLookup resolves a caller identifier to an Identity, or fails if
// no such identifier exists.
type IdentityLookup func(ctx context.Context, id string) (Identity, error)

// HandlerFunc handles a plaintext endpoint.
type HandlerFunc func(ctx context.Context, input any) (any, error)

// EncryptedHandlerFunc handles an encrypted endpoint. The caller identity
// has already been resolved and the envelope verified when it is invoked.
type EncryptedHandlerFunc func(ctx context.Context, caller Identity, input any) (any, error)

// Server is the server-side dispatcher. It is stateless across requests
// except for its metrics counters; each inbound request is handled
// independently by the HTTP transport's per-request goroutine.
type Server struct {
	prefix           string
	priv             Privkey
	lookup           IdentityLookup
	validator        Validator
	plainLimiter     RateLimiter
	encryptedLimiter RateLimiter
	metrics          *Metrics

	mux        *http.ServeMux
	httpServer *http.Server
	listener   net.Listener
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithServerPrefix overrides the endpoint path prefix.
func WithServerPrefix(prefix string) ServerOption {
	return func(s *Server) { s.prefix = prefix }
}

// WithServerValidator installs a validator checked against each endpoint's
// input kind before the handler runs.
func WithServerValidator(v Validator) ServerOption {
	return func(s *Server) { s.validator = v }
}

// WithPlainLimiter sets admission control for unencrypted routes.
func WithPlainLimiter(l RateLimiter) ServerOption {
	return func(s *Server) { s.plainLimiter = l }
}

// WithEncryptedLimiter sets admission control for encrypted routes.
func WithEncryptedLimiter(l RateLimiter) ServerOption {
	return func(s *Server) { s.encryptedLimiter = l }
}

// WithMetrics supplies a shared Metrics instance.
func WithMetrics(m *Metrics) ServerOption {
	return func(s *Server) { s.metrics = m }
}

// NewServer creates a server dispatcher. The private key decrypts and
// signs encrypted traffic; lookup resolves caller identities and is
// required even if only plaintext endpoints are registered.
func NewServer(priv Privkey, lookup IdentityLookup, opts ...ServerOption) *Server {
	s := &Server{
		prefix:           DefaultPrefix,
		priv:             priv,
		lookup:           lookup,
		validator:        acceptAll{},
		plainLimiter:     allowAll{},
		encryptedLimiter: allowAll{},
		metrics:          &Metrics{},
		mux:              http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metrics returns the server's dispatch counters.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handle binds a handler to a plaintext endpoint. Registration happens at
// startup, before Listen.
func (s *Server) Handle(d Descriptor, fn HandlerFunc) {
	s.mux.HandleFunc(s.prefix+"/"+d.Name, func(w http.ResponseWriter, r *http.Request) {
		s.servePlain(w, r, d, fn)
	})
}

// EncryptedHandle binds a handler to an encrypted endpoint.
func (s *Server) EncryptedHandle(d Descriptor, fn EncryptedHandlerFunc) {
	s.mux.HandleFunc(s.prefix+"/"+d.Name, func(w http.ResponseWriter, r *http.Request) {
		s.serveEncrypted(w, r, d, fn)
	})
}

func (s *Server) servePlain(w http.ResponseWriter, r *http.Request, d Descriptor, fn HandlerFunc) {
	reqID, ok := s.admit(w, r, s.plainLimiter)
	if !ok {
		return
	}

	// The body is read as raw text and JSON-decoded explicitly: inputs may
	// be non-object wire values such as bare strings or booleans.
	input, ok := s.readBody(w, r, reqID, d)
	if !ok {
		return
	}

	out, err := fn(r.Context(), input)
	if err != nil {
		s.metrics.handlerFailures.Add(1)
		log.Printf("[RPC] %s %s: handler failed: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, Encode(out))
}

func (s *Server) serveEncrypted(w http.ResponseWriter, r *http.Request, d Descriptor, fn EncryptedHandlerFunc) {
	reqID, ok := s.admit(w, r, s.encryptedLimiter)
	if !ok {
		return
	}
	s.metrics.encrypted.Add(1)

	raw, ok := s.readBody(w, r, reqID, d)
	if !ok {
		return
	}
	payload, ok := raw.(map[string]any)
	if !ok {
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	callerID, _ := payload["id"].(string)
	envelope, _ := payload["payload"].([]byte)

	identity, err := s.lookup(r.Context(), callerID)
	if err != nil {
		// Hard early return: the handler must never run for a caller the
		// user store cannot resolve.
		s.metrics.identityFailures.Add(1)
		log.Printf("[RPC] %s %s: identity lookup for %q failed: %v", reqID, d.Name, callerID, err)
		writeError(w, http.StatusUnauthorized, "no such user")
		return
	}

	input, err := Open(envelope, identity.Key, s.priv)
	if err != nil {
		s.metrics.authFailures.Add(1)
		log.Printf("[RPC] %s %s: envelope from %q rejected: %v", reqID, d.Name, callerID, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	if err := s.validator.Validate(d.Input, input); err != nil {
		log.Printf("[RPC] %s %s: input rejected: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}

	out, err := fn(r.Context(), identity, input)
	if err != nil {
		s.metrics.handlerFailures.Add(1)
		log.Printf("[RPC] %s %s: handler failed: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	if out == nil {
		out = map[string]any{}
	}
	sealed, err := Seal(out, identity.Key, s.priv)
	if err != nil {
		log.Printf("[RPC] %s %s: sealing response failed: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	writeJSON(w, http.StatusOK, Encode(sealed))
}

// admit performs the method check and admission control shared by both
// dispatch paths, before any body parsing. It returns the request id and
// whether processing may continue.
func (s *Server) admit(w http.ResponseWriter, r *http.Request, limiter RateLimiter) (string, bool) {
	reqID := uuid.NewString()
	w.Header().Set("X-Request-Id", reqID)

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return reqID, false
	}
	s.metrics.requests.Add(1)

	if err := limiter.Allow(r.Context(), clientKey(r)); err != nil {
		if errors.Is(err, ErrRateLimited) {
			s.metrics.rateLimited.Add(1)
			writeError(w, http.StatusTooManyRequests, "rate limited")
			return reqID, false
		}
		log.Printf("[RPC] %s: admission check failed: %v", reqID, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return reqID, false
	}
	return reqID, true
}

// readBody reads the raw request body, JSON-decodes it, and rebuilds the
// wire value. Failures answer a generic 500; the cause stays in the log.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request, reqID string, d Descriptor) (any, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("[RPC] %s %s: reading body: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return nil, false
	}
	var wire any
	if err := json.Unmarshal(body, &wire); err != nil {
		log.Printf("[RPC] %s %s: parsing body: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return nil, false
	}
	input, err := Decode(wire)
	if err != nil {
		log.Printf("[RPC] %s %s: decoding body: %v", reqID, d.Name, err)
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return nil, false
	}
	return input, true
}

// Listen binds the HTTP transport and begins serving in the background.
// Passing an address with port 0 binds an ephemeral port; use Port or Addr
// to learn the bound address.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.httpServer = &http.Server{Handler: s.mux}
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[RPC] serve: %v", err)
		}
	}()
	return nil
}

// Port returns the bound listening port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Addr returns the bound listening address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown gracefully closes the listener and in-flight requests,
// returning once fully stopped or when the underlying close fails.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

const genericErrorMessage = "request failed"

// clientKey extracts the admission-control key from the originating
// address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, wire any) {
	body, err := json.Marshal(wire)
	if err != nil {
		// Marshal over wire values only fails for exotic handler outputs;
		// fall back to the generic error body.
		writeError(w, http.StatusInternalServerError, genericErrorMessage)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(Encode(map[string]any{"error": msg}))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
