// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

// Kind is an opaque capability tag describing the shape of an endpoint's
// input or output. The core only threads kinds through to a pluggable
// Validator; it never interprets them itself.
type Kind string

// Descriptor identifies a named operation with declared input and output
// shapes. Descriptors are defined once at startup and shared by client and
// server; the name is the routing key, so both sides must reference
// descriptors with identical names and shapes.
type Descriptor struct {
	Name   string
	Input  Kind
	Output Kind
}

// Validator checks a decoded value against a descriptor kind. How
// validation is implemented is up to the application; the zero
// configuration accepts everything.
type Validator interface {
	Validate(kind Kind, v any) error
}

type acceptAll struct{}

func (acceptAll) Validate(Kind, any) error { return nil }
