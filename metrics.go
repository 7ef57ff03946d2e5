// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel/metric"
)

// ErrNilMeter is returned by RegisterMetrics for a nil meter.
var ErrNilMeter = errors.New("sealrpc: nil meter")

// Metrics counts server dispatch outcomes. All counters are atomic; the
// dispatcher increments them on the request path and exporters read them
// through Snapshot.
type Metrics struct {
	requests         atomic.Uint64
	encrypted        atomic.Uint64
	rateLimited      atomic.Uint64
	identityFailures atomic.Uint64
	authFailures     atomic.Uint64
	handlerFailures  atomic.Uint64
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Requests          uint64
	EncryptedRequests uint64
	RateLimited       uint64
	IdentityFailures  uint64
	AuthFailures      uint64
	HandlerFailures   uint64
}

// Snapshot copies the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:          m.requests.Load(),
		EncryptedRequests: m.encrypted.Load(),
		RateLimited:       m.rateLimited.Load(),
		IdentityFailures:  m.identityFailures.Load(),
		AuthFailures:      m.authFailures.Load(),
		HandlerFailures:   m.handlerFailures.Load(),
	}
}

// RegisterMetrics registers one observable counter per dispatch outcome on
// the supplied meter, read from m in a single collection callback. Callers
// own the MeterProvider; unregister via the returned registration.
func RegisterMetrics(meter metric.Meter, m *Metrics) (metric.Registration, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}

	type counterDef struct {
		name string
		desc string
		read func(MetricsSnapshot) uint64
	}
	defs := []counterDef{
		{"sealrpc.server.requests", "requests dispatched", func(s MetricsSnapshot) uint64 { return s.Requests }},
		{"sealrpc.server.requests.encrypted", "encrypted requests dispatched", func(s MetricsSnapshot) uint64 { return s.EncryptedRequests }},
		{"sealrpc.server.rate_limited", "requests rejected by admission control", func(s MetricsSnapshot) uint64 { return s.RateLimited }},
		{"sealrpc.server.identity_failures", "encrypted requests with unresolvable caller", func(s MetricsSnapshot) uint64 { return s.IdentityFailures }},
		{"sealrpc.server.auth_failures", "envelopes that failed to open", func(s MetricsSnapshot) uint64 { return s.AuthFailures }},
		{"sealrpc.server.handler_failures", "handler invocations that returned an error", func(s MetricsSnapshot) uint64 { return s.HandlerFailures }},
	}

	instruments := make([]metric.Int64ObservableCounter, len(defs))
	observables := make([]metric.Observable, len(defs))
	for i, def := range defs {
		c, err := meter.Int64ObservableCounter(def.name, metric.WithDescription(def.desc))
		if err != nil {
			return nil, err
		}
		instruments[i] = c
		observables[i] = c
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		snap := m.Snapshot()
		for i, def := range defs {
			o.ObserveInt64(instruments[i], int64(def.read(snap)))
		}
		return nil
	}, observables...)
}
