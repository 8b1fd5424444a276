// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package z85 provides ZeroMQ Base-85 Encoding as specified by:
// https://rfc.zeromq.org/spec/32/Z85/
package z85

import (
	"errors"
	"fmt"
)

const (
	// KeySize is the binary size of a CURVE key.
	KeySize = 32
	// KeyTextSize is the Z85 encoded size of a CURVE key.
	KeyTextSize = 40
)

var (
	ErrInvalidLength = errors.New("z85: invalid input length")
	ErrInvalidChar   = errors.New("z85: invalid character")
	ErrKeySize       = errors.New("z85: invalid key size")
)

// Z85 alphabet as defined in RFC 32.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ.-:+=^!/*?&<>()[]{}@%$#"

// Reverse lookup table, built once from the alphabet. 0xFF marks
// characters outside the alphabet.
var decoder [256]byte

func init() {
	for i := range decoder {
		decoder[i] = 0xFF
	}
	for i := 0; i < len(alphabet); i++ {
		decoder[alphabet[i]] = byte(i)
	}
}

// EncodedLen returns the Z85 encoded length for n source bytes.
func EncodedLen(n int) int {
	return n * 5 / 4
}

// DecodedLen returns the length in bytes of the decoded data
// corresponding to n bytes of Z85-encoded data.
func DecodedLen(n int) int {
	return n * 4 / 5
}

// Encode encodes src using Z85 encoding, writing EncodedLen(len(src))
// bytes to dst. The encoding handles 4-byte groups, so len(src) must be
// divisible by 4.
func Encode(dst, src []byte) error {
	if len(src)%4 != 0 {
		return fmt.Errorf("%w: source length %d not divisible by 4", ErrInvalidLength, len(src))
	}
	if len(dst) < EncodedLen(len(src)) {
		return fmt.Errorf("z85: destination buffer too small: need %d, got %d", EncodedLen(len(src)), len(dst))
	}

	di := 0
	for si := 0; si < len(src); si += 4 {
		value := uint32(src[si])<<24 | uint32(src[si+1])<<16 | uint32(src[si+2])<<8 | uint32(src[si+3])
		for i := 4; i >= 0; i-- {
			dst[di+i] = alphabet[value%85]
			value /= 85
		}
		di += 5
	}
	return nil
}

// EncodeToString returns the Z85 encoding of src.
func EncodeToString(src []byte) (string, error) {
	dst := make([]byte, EncodedLen(len(src)))
	if err := Encode(dst, src); err != nil {
		return "", err
	}
	return string(dst), nil
}

// Decode decodes src using Z85 encoding, writing DecodedLen(len(src))
// bytes to dst and returning the number of bytes written. The decoding
// handles 5-character groups, so len(src) must be divisible by 5.
func Decode(dst, src []byte) (int, error) {
	if len(src)%5 != 0 {
		return 0, fmt.Errorf("%w: source length %d not divisible by 5", ErrInvalidLength, len(src))
	}
	if len(dst) < DecodedLen(len(src)) {
		return 0, fmt.Errorf("z85: destination buffer too small: need %d, got %d", DecodedLen(len(src)), len(dst))
	}

	di := 0
	for si := 0; si < len(src); si += 5 {
		var value uint64
		for i := 0; i < 5; i++ {
			v := decoder[src[si+i]]
			if v == 0xFF {
				return 0, fmt.Errorf("%w: character %q at position %d", ErrInvalidChar, src[si+i], si+i)
			}
			value = value*85 + uint64(v)
		}
		// A 5-character group must fit a 32-bit word.
		if value > 0xFFFFFFFF {
			return 0, fmt.Errorf("z85: decoded value overflow at position %d", si)
		}
		dst[di] = byte(value >> 24)
		dst[di+1] = byte(value >> 16)
		dst[di+2] = byte(value >> 8)
		dst[di+3] = byte(value)
		di += 4
	}
	return di, nil
}

// DecodeString returns the bytes represented by the Z85 string s.
func DecodeString(s string) ([]byte, error) {
	dst := make([]byte, DecodedLen(len(s)))
	n, err := Decode(dst, []byte(s))
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

// ValidateString checks that s is a valid Z85 encoded string.
func ValidateString(s string) error {
	if len(s)%5 != 0 {
		return fmt.Errorf("%w: length %d not divisible by 5", ErrInvalidLength, len(s))
	}
	for i := 0; i < len(s); i++ {
		if decoder[s[i]] == 0xFF {
			return fmt.Errorf("%w: character %q at position %d", ErrInvalidChar, s[i], i)
		}
	}
	return nil
}

// EncodeKey returns the 40-character text form of a 32-byte CURVE key.
func EncodeKey(key [KeySize]byte) string {
	dst := make([]byte, KeyTextSize)
	// 32 bytes always encode cleanly.
	_ = Encode(dst, key[:])
	return string(dst)
}

// DecodeKey decodes the 40-character text form of a CURVE key.
func DecodeKey(text string) ([KeySize]byte, error) {
	var key [KeySize]byte
	if len(text) != KeyTextSize {
		return key, fmt.Errorf("%w: key text must be %d characters, got %d", ErrKeySize, KeyTextSize, len(text))
	}
	raw, err := DecodeString(text)
	if err != nil {
		return key, err
	}
	copy(key[:], raw)
	return key, nil
}
