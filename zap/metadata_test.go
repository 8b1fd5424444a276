// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zap

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestMetadataOrderAndRoundTrip(t *testing.T) {
	md := NewMetadata()
	md.Set("name", "alice")
	md.Set("clearance", "top-secret")
	md.Set("name", "bob") // replace keeps the original position

	blob, err := md.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := ParseMetadata(blob)
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	keys := decoded.Keys()
	if len(keys) != 2 || keys[0] != "name" || keys[1] != "clearance" {
		t.Errorf("Key order mismatch: %v", keys)
	}
	if v, _ := decoded.Get("name"); v != "bob" {
		t.Errorf("Expected name=bob, got %q", v)
	}
	if v, _ := decoded.Get("clearance"); v != "top-secret" {
		t.Errorf("Expected clearance=top-secret, got %q", v)
	}
}

func TestMetadataWireLayout(t *testing.T) {
	md := NewMetadata()
	md.Set("k", "vv")

	blob, err := md.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	want := []byte{1, 'k', 0, 0, 0, 2, 'v', 'v'}
	if !bytes.Equal(blob, want) {
		t.Errorf("Wire layout mismatch\nExpected: %x\nGot:      %x", want, blob)
	}
}

func TestMetadataEmptyValue(t *testing.T) {
	md := NewMetadata()
	md.Set("present", "")

	blob, err := md.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, err := ParseMetadata(blob)
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}
	if _, ok := decoded.Get("present"); !ok {
		t.Error("Empty-valued property lost in round trip")
	}
}

func TestMetadataBadKey(t *testing.T) {
	for _, key := range []string{"", "white space", "éclair", strings.Repeat("k", 256)} {
		md := NewMetadata()
		md.Set(key, "v")
		if _, err := md.Encode(); !errors.Is(err, ErrMetaKey) {
			t.Errorf("Expected ErrMetaKey for %q, got %v", key, err)
		}
	}
}

func TestMetadataGoodKeyCharset(t *testing.T) {
	md := NewMetadata()
	md.Set("Key-1_ok.v2+", "value")
	if _, err := md.Encode(); err != nil {
		t.Errorf("Expected charset to be accepted: %v", err)
	}
}

func TestParseMetadataTruncated(t *testing.T) {
	cases := [][]byte{
		{5, 'a', 'b'},                // key shorter than its length
		{1, 'k', 0, 0},               // missing value length bytes
		{1, 'k', 0, 0, 0, 9, 'v'},    // value shorter than its length
		{0, 0, 0, 0, 0},              // zero-length key
	}
	for i, blob := range cases {
		if _, err := ParseMetadata(blob); !errors.Is(err, ErrMetaTruncated) {
			t.Errorf("Case %d: expected ErrMetaTruncated, got %v", i, err)
		}
	}
}
