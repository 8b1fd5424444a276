// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package testutil provides key and certificate fixtures for the zauth
// test suites.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/destiny/zauth/z85"
	"github.com/destiny/zauth/zcert"
)

// NewTestCert generates a fresh certificate and fails the test on
// error.
func NewTestCert(t testing.TB) *zcert.Cert {
	t.Helper()
	cert, err := zcert.NewCert()
	if err != nil {
		t.Fatalf("Failed to generate test certificate: %v", err)
	}
	return cert
}

// NewTestKey generates a fresh keypair and returns the binary public
// key with its text form.
func NewTestKey(t testing.TB) ([z85.KeySize]byte, string) {
	t.Helper()
	cert := NewTestCert(t)
	return cert.PublicKey(), cert.PublicText()
}

// WriteCertDir saves the given certificates into a fresh temporary
// directory laid out the way a CURVE certificate store expects, and
// returns its path.
func WriteCertDir(t testing.TB, certs ...*zcert.Cert) string {
	t.Helper()
	dir := t.TempDir()
	for i, cert := range certs {
		path := filepath.Join(dir, certName(i))
		if err := cert.Save(path); err != nil {
			t.Fatalf("Failed to save certificate %d: %v", i, err)
		}
	}
	return dir
}

func certName(i int) string {
	return "cert-" + string(rune('a'+i)) + ".crt"
}
