// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zcert provides CURVE security certificates: a public/secret
// Curve25519 keypair plus free-form string metadata, persisted in the
// classic two-file ZPL text format (public file plus "<name>_secret").
package zcert

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"github.com/destiny/zauth/z85"
)

// Cert is a CURVE certificate. Keys are immutable after construction;
// the text and binary forms are always kept consistent. Metadata is
// mutable and insertion-ordered.
type Cert struct {
	public     [z85.KeySize]byte
	secret     [z85.KeySize]byte
	publicText string
	secretText string

	metaKeys []string
	meta     map[string]string
}

func newCert(public, secret [z85.KeySize]byte) *Cert {
	return &Cert{
		public:     public,
		secret:     secret,
		publicText: z85.EncodeKey(public),
		secretText: z85.EncodeKey(secret),
		meta:       make(map[string]string),
	}
}

// NewCert generates a certificate with a fresh random keypair.
func NewCert() (*Cert, error) {
	public, secret, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("zcert: could not generate keypair: %w", err)
	}
	cert := newCert(*public, *secret)

	// Guard against an inconsistent codec: the text forms must decode
	// back to the exact binary keys.
	if p, err := z85.DecodeKey(cert.publicText); err != nil || p != cert.public {
		return nil, fmt.Errorf("zcert: public key text round-trip failed")
	}
	if s, err := z85.DecodeKey(cert.secretText); err != nil || s != cert.secret {
		return nil, fmt.Errorf("zcert: secret key text round-trip failed")
	}
	return cert, nil
}

// NewCertFromKeys builds a certificate from explicit 32-byte key
// material. An all-zero secret marks a public-only certificate.
func NewCertFromKeys(public, secret []byte) (*Cert, error) {
	if len(public) != z85.KeySize {
		return nil, fmt.Errorf("zcert: public key must be %d bytes, got %d", z85.KeySize, len(public))
	}
	if len(secret) != z85.KeySize {
		return nil, fmt.Errorf("zcert: secret key must be %d bytes, got %d", z85.KeySize, len(secret))
	}
	var pub, sec [z85.KeySize]byte
	copy(pub[:], public)
	copy(sec[:], secret)
	return newCert(pub, sec), nil
}

// NewCertFromTexts builds a certificate from 40-character Z85 key
// texts. An empty secret text marks a public-only certificate.
func NewCertFromTexts(publicText, secretText string) (*Cert, error) {
	public, err := z85.DecodeKey(publicText)
	if err != nil {
		return nil, fmt.Errorf("zcert: invalid public key text: %w", err)
	}
	var secret [z85.KeySize]byte
	if secretText != "" {
		secret, err = z85.DecodeKey(secretText)
		if err != nil {
			return nil, fmt.Errorf("zcert: invalid secret key text: %w", err)
		}
	}
	return newCert(public, secret), nil
}

// PublicKey returns the 32-byte public key.
func (c *Cert) PublicKey() [z85.KeySize]byte { return c.public }

// SecretKey returns the 32-byte secret key, all-zero for a public-only
// certificate.
func (c *Cert) SecretKey() [z85.KeySize]byte { return c.secret }

// PublicText returns the 40-character Z85 form of the public key.
func (c *Cert) PublicText() string { return c.publicText }

// SecretText returns the 40-character Z85 form of the secret key.
func (c *Cert) SecretText() string { return c.secretText }

// HasSecret reports whether the certificate carries a secret key.
func (c *Cert) HasSecret() bool {
	return c.secret != [z85.KeySize]byte{}
}

// SetMeta adds or replaces a metadata property.
func (c *Cert) SetMeta(key, value string) {
	if _, ok := c.meta[key]; !ok {
		c.metaKeys = append(c.metaKeys, key)
	}
	c.meta[key] = value
}

// Meta returns the value of a metadata property, or "" when unset.
func (c *Cert) Meta(key string) string {
	return c.meta[key]
}

// DelMeta removes a metadata property.
func (c *Cert) DelMeta(key string) {
	if _, ok := c.meta[key]; !ok {
		return
	}
	delete(c.meta, key)
	for i, k := range c.metaKeys {
		if k == key {
			c.metaKeys = append(c.metaKeys[:i], c.metaKeys[i+1:]...)
			break
		}
	}
}

// MetaKeys returns the metadata property names in insertion order.
func (c *Cert) MetaKeys() []string {
	out := make([]string, len(c.metaKeys))
	copy(out, c.metaKeys)
	return out
}
