// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package sealrpc

import (
	"bytes"
	"errors"
	"testing"
	"time"
)

// wireEqual compares decoded wire values structurally, byte-for-byte on
// buffers and by instant on timestamps.
func wireEqual(a, b any) bool {
	switch x := a.(type) {
	case []byte:
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !wireEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			w, present := y[k]
			if !present || !wireEqual(v, w) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func TestWireRoundTrip(t *testing.T) {
	stamp := time.Date(2025, 3, 14, 9, 26, 53, 590_000_000, time.UTC)

	cases := []struct {
		name string
		v    any
	}{
		{"nil", nil},
		{"true", true},
		{"false", false},
		{"number", 42.5},
		{"string", "plain string"},
		{"bytes", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"empty bytes", []byte{}},
		{"timestamp", stamp},
		{"empty list", []any{}},
		{"empty map", map[string]any{}},
		{"nested", map[string]any{
			"who":   "alice",
			"ok":    true,
			"blob":  []byte{0x00, 0x01, 0xff},
			"since": stamp,
			"items": []any{
				nil,
				float64(7),
				map[string]any{"inner": []byte("raw"), "empty": []any{}},
			},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(Encode(tc.v))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !wireEqual(tc.v, got) {
				t.Errorf("round trip: got %#v, want %#v", got, tc.v)
			}
		})
	}
}

func TestWireEncodeTags(t *testing.T) {
	if got := Encode([]byte{0xde, 0xad}); got != "hex$dead" {
		t.Errorf("got %v, want hex$dead", got)
	}
	stamp := time.Date(2025, 3, 14, 9, 26, 53, 590_000_000, time.UTC)
	if got := Encode(stamp); got != "date$2025-03-14T09:26:53.590Z" {
		t.Errorf("got %v, want date$2025-03-14T09:26:53.590Z", got)
	}
}

func TestWireTimestampMillisecondPrecision(t *testing.T) {
	d := time.Date(2025, 3, 14, 9, 26, 53, 590_123_456, time.UTC)
	got, err := Decode(Encode(d))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	ts, ok := got.(time.Time)
	if !ok {
		t.Fatalf("got %T, want time.Time", got)
	}
	if !ts.Equal(d.Truncate(time.Millisecond)) {
		t.Errorf("got %v, want %v", ts, d.Truncate(time.Millisecond))
	}
}

func TestWireDecodeErrors(t *testing.T) {
	for _, bad := range []any{
		"hex$zz",
		"date$not-a-date",
		[]any{"hex$0g"},
		map[string]any{"when": "date$2025-13-99"},
	} {
		if _, err := Decode(bad); !errors.Is(err, ErrEncoding) {
			t.Errorf("Decode(%v): got %v, want ErrEncoding", bad, err)
		}
	}
}

func TestWireUntaggedStringsPassThrough(t *testing.T) {
	got, err := Decode("hexadecimal is fine")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hexadecimal is fine" {
		t.Errorf("got %v", got)
	}
}
