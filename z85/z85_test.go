// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package z85

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"
)

// Test vectors from the RFC 32 specification.
var testVectors = []struct {
	binary []byte
	z85    string
}{
	{
		binary: []byte{0x86, 0x4F, 0xD2, 0x6F, 0xB5, 0x59, 0xF7, 0x5B},
		z85:    "HelloWorld",
	},
	{
		binary: []byte{0x8E, 0x0B, 0xDD, 0x69, 0x76, 0x28, 0xB9, 0x1D, 0x8F, 0x24, 0x55, 0x87, 0xEE, 0x95, 0xC5, 0xB0, 0x4D, 0x48, 0x96, 0x3F, 0x79, 0x25, 0x98, 0x77, 0xB4, 0x9C, 0xD9, 0x06, 0x3A, 0xEA, 0xD3, 0xB7},
		z85:    "JTKVSB%%)wK0E.X)V>+}o?pNmC{O&4W4b!Ni{Lh6",
	},
}

func TestEncodeToString(t *testing.T) {
	for i, tv := range testVectors {
		result, err := EncodeToString(tv.binary)
		if err != nil {
			t.Errorf("Test %d: EncodeToString failed: %v", i, err)
			continue
		}
		if result != tv.z85 {
			t.Errorf("Test %d: EncodeToString mismatch\nExpected: %q\nGot:      %q", i, tv.z85, result)
		}
	}
}

func TestDecodeString(t *testing.T) {
	for i, tv := range testVectors {
		result, err := DecodeString(tv.z85)
		if err != nil {
			t.Errorf("Test %d: DecodeString failed: %v", i, err)
			continue
		}
		if !bytes.Equal(result, tv.binary) {
			t.Errorf("Test %d: DecodeString mismatch\nExpected: %x\nGot:      %x", i, tv.binary, result)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	sizes := []int{4, 8, 16, 32, 64, 128, 256}

	for _, size := range sizes {
		t.Run(fmt.Sprintf("size_%d", size), func(t *testing.T) {
			original := make([]byte, size)
			if _, err := rand.Read(original); err != nil {
				t.Fatalf("Failed to generate random data: %v", err)
			}

			encoded, err := EncodeToString(original)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if len(encoded) != EncodedLen(size) {
				t.Errorf("Encoded length mismatch: expected %d, got %d", EncodedLen(size), len(encoded))
			}

			decoded, err := DecodeString(encoded)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("Round-trip mismatch\nOriginal: %x\nDecoded:  %x", original, decoded)
			}
		})
	}
}

func TestInvalidLength(t *testing.T) {
	if _, err := EncodeToString([]byte{1, 2, 3}); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Expected ErrInvalidLength for 3-byte input, got %v", err)
	}
	if _, err := DecodeString("abcd"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Expected ErrInvalidLength for 4-char input, got %v", err)
	}
}

func TestInvalidChar(t *testing.T) {
	// Space and tilde are not in the Z85 alphabet.
	for _, s := range []string{"abcd ", "abcd~", "\x80bcde"} {
		if _, err := DecodeString(s); !errors.Is(err, ErrInvalidChar) {
			t.Errorf("Expected ErrInvalidChar for %q, got %v", s, err)
		}
		if err := ValidateString(s); !errors.Is(err, ErrInvalidChar) {
			t.Errorf("Expected ErrInvalidChar validating %q, got %v", s, err)
		}
	}
}

func TestValidateString(t *testing.T) {
	if err := ValidateString(testVectors[1].z85); err != nil {
		t.Errorf("ValidateString rejected a valid key: %v", err)
	}
	if err := ValidateString("abc"); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("Expected ErrInvalidLength, got %v", err)
	}
}

func TestKeyRoundTrip(t *testing.T) {
	var key [KeySize]byte
	if _, err := rand.Read(key[:]); err != nil {
		t.Fatalf("Failed to generate random key: %v", err)
	}

	text := EncodeKey(key)
	if len(text) != KeyTextSize {
		t.Fatalf("Key text length mismatch: expected %d, got %d", KeyTextSize, len(text))
	}

	decoded, err := DecodeKey(text)
	if err != nil {
		t.Fatalf("DecodeKey failed: %v", err)
	}
	if decoded != key {
		t.Errorf("Key round-trip mismatch\nOriginal: %x\nDecoded:  %x", key, decoded)
	}
}

func TestDecodeKeyBadLength(t *testing.T) {
	if _, err := DecodeKey("HelloWorld"); !errors.Is(err, ErrKeySize) {
		t.Errorf("Expected ErrKeySize for 10-char input, got %v", err)
	}
}
