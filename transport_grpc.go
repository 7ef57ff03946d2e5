//go:build grpc

// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

// GRPCTransport is a client-side alternate Transport that carries the
// serialized wire bytes over a gRPC connection instead of HTTP POST. The
// endpoint name becomes the gRPC method under the sealrpc.Gateway service;
// gRPC status codes are mapped back onto the protocol's HTTP statuses.
//
// There is no gRPC server counterpart yet; this exists for deployments
// that front the HTTP dispatcher with a gRPC gateway.
type GRPCTransport struct {
	conn *grpc.ClientConn
}

// NewGRPCTransport dials addr without transport security. End-to-end
// confidentiality for encrypted endpoints comes from the envelope itself.
func NewGRPCTransport(ctx context.Context, addr string) (*GRPCTransport, error) {
	conn, err := grpc.DialContext(ctx, addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCTransport{conn: conn}, nil
}

func (t *GRPCTransport) Post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	endpoint := url
	if i := strings.LastIndexByte(url, '/'); i >= 0 {
		endpoint = url[i+1:]
	}
	var resp []byte
	err := t.conn.Invoke(ctx, "/sealrpc.Gateway/"+endpoint, body, &resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		return grpcStatusCode(err), nil, nil
	}
	return 200, resp, nil
}

// Close closes the underlying connection.
func (t *GRPCTransport) Close() error {
	return t.conn.Close()
}

func grpcStatusCode(err error) int {
	switch status.Code(err) {
	case codes.Unauthenticated:
		return 401
	case codes.ResourceExhausted:
		return 429
	default:
		return 500
	}
}

// rawCodec passes pre-serialized bytes through unchanged.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("raw codec: expected []byte, got %T", v)
	}
	return b, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	b, ok := v.(*[]byte)
	if !ok {
		return fmt.Errorf("raw codec: expected *[]byte, got %T", v)
	}
	*b = data
	return nil
}

func (rawCodec) Name() string { return "sealrpc-raw" }
