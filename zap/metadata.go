// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zap

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrMetaKey       = errors.New("zap: invalid metadata key")
	ErrMetaTruncated = errors.New("zap: truncated metadata record")
)

// Metadata is an insertion-ordered set of string properties carried by
// a successful reply. The wire form is a flat concatenation of records:
// 1-byte key length, key, 4-byte big-endian value length, value.
type Metadata struct {
	keys   []string
	values map[string]string
}

// NewMetadata returns an empty metadata set.
func NewMetadata() *Metadata {
	return &Metadata{values: make(map[string]string)}
}

// Set adds or replaces a property, preserving first-insertion order.
func (md *Metadata) Set(key, value string) {
	if _, ok := md.values[key]; !ok {
		md.keys = append(md.keys, key)
	}
	md.values[key] = value
}

// Get returns the value for key and whether it is present.
func (md *Metadata) Get(key string) (string, bool) {
	v, ok := md.values[key]
	return v, ok
}

// Keys returns the property names in insertion order.
func (md *Metadata) Keys() []string {
	out := make([]string, len(md.keys))
	copy(out, md.keys)
	return out
}

// Len returns the number of properties.
func (md *Metadata) Len() int {
	return len(md.keys)
}

// validMetaKey reports whether the key fits the ZAP property-name
// charset: letters, digits, '-', '_', '.' and '+'.
func validMetaKey(key string) bool {
	if len(key) == 0 || len(key) > 255 {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_' || c == '.' || c == '+':
		default:
			return false
		}
	}
	return true
}

// Encode returns the binary wire form of the metadata set.
func (md *Metadata) Encode() ([]byte, error) {
	size := 0
	for _, key := range md.keys {
		size += 1 + len(key) + 4 + len(md.values[key])
	}
	buf := make([]byte, 0, size)
	for _, key := range md.keys {
		if !validMetaKey(key) {
			return nil, errors.WithMessagef(ErrMetaKey, "%q", key)
		}
		value := md.values[key]
		buf = append(buf, byte(len(key)))
		buf = append(buf, key...)
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(value)))
		buf = append(buf, value...)
	}
	return buf, nil
}

// ParseMetadata decodes the binary wire form back into a metadata set.
func ParseMetadata(data []byte) (*Metadata, error) {
	md := NewMetadata()
	for len(data) > 0 {
		klen := int(data[0])
		data = data[1:]
		if klen == 0 || len(data) < klen+4 {
			return nil, ErrMetaTruncated
		}
		key := string(data[:klen])
		vlen := int(binary.BigEndian.Uint32(data[klen : klen+4]))
		data = data[klen+4:]
		if len(data) < vlen {
			return nil, ErrMetaTruncated
		}
		md.Set(key, string(data[:vlen]))
		data = data[vlen:]
	}
	return md, nil
}
