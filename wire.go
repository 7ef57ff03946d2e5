// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Wire value tags. Strings carrying these prefixes are reserved for byte
// buffers and timestamps; a legitimate payload string starting with a tag
// is an accepted format limitation and is not validated against.
const (
	hexTag  = "hex$"
	dateTag = "date$"
)

// wireTimeLayout is ISO-8601 at millisecond precision, always UTC.
const wireTimeLayout = "2006-01-02T15:04:05.000Z"

// Encode recursively converts a value into its JSON-safe wire
// representation. Byte slices become "hex$"-tagged lowercase hex strings,
// timestamps become "date$"-tagged ISO-8601 strings, sequences and mappings
// are rebuilt recursively, and all other scalars pass through unchanged.
//
// Encode is total over the supported value universe (nil, bool, numbers,
// string, []byte, time.Time, []any, map[string]any); behavior for anything
// else is undefined.
func Encode(v any) any {
	switch t := v.(type) {
	case []byte:
		return hexTag + hex.EncodeToString(t)
	case time.Time:
		return dateTag + t.UTC().Format(wireTimeLayout)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Encode(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Encode(e)
		}
		return out
	default:
		return v
	}
}

// Decode is the inverse of Encode. Tagged strings are rebuilt into byte
// slices and timestamps; sequences and mappings recurse; everything else
// passes through. A malformed tag payload fails with ErrEncoding.
func Decode(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return decodeString(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			d, err := Decode(e)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			d, err := Decode(e)
			if err != nil {
				return nil, err
			}
			out[k] = d
		}
		return out, nil
	default:
		return v, nil
	}
}

func decodeString(s string) (any, error) {
	switch {
	case strings.HasPrefix(s, hexTag):
		b, err := hex.DecodeString(s[len(hexTag):])
		if err != nil {
			return nil, fmt.Errorf("%w: bad hex payload: %v", ErrEncoding, err)
		}
		return b, nil
	case strings.HasPrefix(s, dateTag):
		ts, err := time.Parse(time.RFC3339Nano, s[len(dateTag):])
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp payload: %v", ErrEncoding, err)
		}
		return ts.UTC(), nil
	default:
		return s, nil
	}
}
