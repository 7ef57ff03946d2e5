// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package sealrpc is a minimal typed RPC calling convention over HTTP with
// an optional authenticated end-to-end encryption mode. Encrypted endpoints
// keep their payloads opaque to an intermediate transport layer, such as a
// TLS-terminating proxy under partial distrust.
//
// # Wire format
//
// Values cross the wire as JSON. Byte buffers travel as "hex$"-tagged hex
// strings and timestamps as "date$"-tagged ISO-8601 strings; Encode and
// Decode are exact inverses over the supported value universe. Encrypted
// calls post {"id": <caller>, "payload": "hex$<nonce+ciphertext>"} and
// receive a sealed envelope string back. Envelopes are NaCl box
// authenticated encryption: the recipient gets confidentiality and proof
// that the message originated from the claimed sender key.
//
// # Usage
//
// Server usage:
//
//	priv, pub, _ := sealrpc.GenKeyPair()
//	server := sealrpc.NewServer(priv, lookupUser)
//
//	server.Handle(ping, func(ctx context.Context, input any) (any, error) {
//	    return true, nil
//	})
//	server.EncryptedHandle(whoami, func(ctx context.Context, caller sealrpc.Identity, input any) (any, error) {
//	    return caller.ID, nil
//	})
//
//	if err := server.Listen(":0"); err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Shutdown(context.Background())
//
// Client usage:
//
//	client := sealrpc.NewClient("http://localhost:" + port)
//	ping := client.Call(pingDescriptor)
//	alive, err := ping(ctx, nil)
//
//	client.SetKeys("alice", alicePriv, alicePub, serverPub)
//	whoami := client.EncryptedCall(whoamiDescriptor)
//	name, err := whoami(ctx, nil)
//
// # Architecture
//
// The package separates concerns:
//
//   - wire.go: recursive wire value codec
//   - key.go, envelope.go: key material and box seal/open
//   - session.go: client-held login state
//   - client.go: client dispatcher and call construction
//   - server.go: handler registration, dispatch, identity resolution
//   - transport.go: HTTP transport (gRPC alternate behind -tags grpc)
//   - limiter.go: Redis-backed admission control
//   - metrics.go: dispatch counters and OpenTelemetry bridge
//
// The dispatcher holds no shared mutable state across requests; identity
// lookup and rate limiting are collaborators injected at construction.
package sealrpc
