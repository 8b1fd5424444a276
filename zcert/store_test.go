// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zcert

import (
	"os"
	"path/filepath"
	"testing"
)

func mustCert(t *testing.T) *Cert {
	t.Helper()
	cert, err := NewCert()
	if err != nil {
		t.Fatalf("NewCert failed: %v", err)
	}
	return cert
}

func TestStoreMissingDir(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "not-provisioned-yet"))
	if err != nil {
		t.Fatalf("Expected empty store for missing directory, got %v", err)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d certificates", store.Len())
	}
}

func TestStoreLookup(t *testing.T) {
	dir := t.TempDir()
	known := mustCert(t)
	if err := known.Save(filepath.Join(dir, "known.crt")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	stranger := mustCert(t)

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Len() != 1 {
		t.Fatalf("Expected 1 certificate, got %d", store.Len())
	}

	cert, ok := store.Lookup(known.PublicText())
	if !ok {
		t.Fatal("Known certificate not found")
	}
	if cert.PublicKey() != known.PublicKey() {
		t.Error("Lookup returned the wrong certificate")
	}
	if _, ok := store.Lookup(stranger.PublicText()); ok {
		t.Error("Unknown key resolved to a certificate")
	}
}

func TestStoreSkipsSecretAndMalformed(t *testing.T) {
	dir := t.TempDir()
	cert := mustCert(t)
	// Save writes the pair: public file plus its _secret shadow.
	if err := cert.Save(filepath.Join(dir, "pair.crt")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	junk := filepath.Join(dir, "junk.crt")
	if err := os.WriteFile(junk, []byte("not a certificate\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 certificate, got %d", store.Len())
	}
}

func TestStoreReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("Expected empty store, got %d certificates", store.Len())
	}

	late := mustCert(t)
	if err := late.Save(filepath.Join(dir, "late.crt")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok := store.Lookup(late.PublicText()); ok {
		t.Fatal("New certificate visible before Reload")
	}

	if err := store.Reload(); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if _, ok := store.Lookup(late.PublicText()); !ok {
		t.Error("New certificate not visible after Reload")
	}
}
