// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zcert

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store is a lookup table from public-key text to certificate, backed
// by a directory of certificate files. The directory is read eagerly
// into an immutable snapshot; Reload builds a fresh snapshot and swaps
// it atomically, so readers never observe a half-loaded index.
type Store struct {
	dir string

	mu    sync.RWMutex
	certs map[string]*Cert
}

// NewStore binds a store to a directory and loads it. A missing
// directory yields an empty store, not an error: an auth service may
// start before its certificates are provisioned.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the bound directory.
func (s *Store) Dir() string { return s.dir }

// Lookup returns the certificate whose public-key text matches. A miss
// is not an error.
func (s *Store) Lookup(publicText string) (*Cert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cert, ok := s.certs[publicText]
	return cert, ok
}

// Len returns the number of indexed certificates.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.certs)
}

// Reload rebuilds the index from the directory and swaps it in.
// Unreadable or malformed files are skipped; "<name>_secret" files are
// picked up through their public counterpart, not indexed twice.
func (s *Store) Reload() error {
	certs := make(map[string]*Cert)

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.swap(certs)
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() || strings.HasSuffix(entry.Name(), secretSuffix) {
			continue
		}
		cert, err := Load(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		certs[cert.PublicText()] = cert
	}

	s.swap(certs)
	return nil
}

func (s *Store) swap(certs map[string]*Cert) {
	s.mu.Lock()
	s.certs = certs
	s.mu.Unlock()
}
