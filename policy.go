// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zauth

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/destiny/zauth/zap"
	"github.com/destiny/zauth/zcert"
)

// policy is the mutable authorization state of one engine. It is owned
// by the engine loop: every mutation happens on the loop goroutine in
// response to an administrative command, so no locking is needed.
type policy struct {
	whitelist map[string]struct{}
	blacklist map[string]struct{}

	// PLAIN username -> password table; an empty table denies all
	// PLAIN requests.
	passwords map[string]string

	// CURVE mode: allow any client, or consult the store. With
	// neither configured every CURVE request is denied.
	curveAllowAny bool
	certs         *zcert.Store
}

func newPolicy() *policy {
	return &policy{
		whitelist: make(map[string]struct{}),
		blacklist: make(map[string]struct{}),
		passwords: make(map[string]string),
	}
}

// allow whitelists addresses. Adding an address twice is a no-op.
func (p *policy) allow(addrs ...string) {
	for _, addr := range addrs {
		p.whitelist[addr] = struct{}{}
	}
}

// deny blacklists addresses and evicts them from the whitelist; an
// address can never be on both lists.
func (p *policy) deny(addrs ...string) {
	for _, addr := range addrs {
		p.blacklist[addr] = struct{}{}
		delete(p.whitelist, addr)
	}
}

// loadPasswords reads a `name=value` password file, replacing the
// current table wholesale. A missing file yields an empty table, not an
// error: the service may start before its policy files exist.
func loadPasswords(path string) (map[string]string, error) {
	table := make(map[string]string)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return table, nil
		}
		return table, errors.WithMessage(err, "zauth: could not open password file")
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		table[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return table, errors.WithMessage(err, "zauth: could not scan password file")
	}
	return table, nil
}

// decide evaluates one parsed request against the current policy and
// returns the decision plus the user identity and encoded certificate
// metadata for the reply. Log lines never affect the outcome.
func (p *policy) decide(req *zap.Request, log *Logger) (allowed bool, userID string, metadata []byte) {
	denied := false

	// Address filtering. The whitelist is advisory; the blacklist is
	// checked second so that membership is always fatal.
	if len(p.whitelist) > 0 {
		if _, ok := p.whitelist[req.Address]; ok {
			allowed = true
			log.Debug("passed (whitelist) address=%q", req.Address)
		} else {
			denied = true
			log.Debug("denied (not in whitelist) address=%q", req.Address)
		}
	}
	if len(p.blacklist) > 0 {
		if _, ok := p.blacklist[req.Address]; ok {
			allowed = false
			denied = true
			log.Debug("denied (blacklist) address=%q", req.Address)
		} else {
			allowed = true
			denied = false
			log.Debug("passed (not in blacklist) address=%q", req.Address)
		}
	}
	if denied {
		return false, "", nil
	}

	switch req.Mechanism {
	case zap.MechNull:
		// NULL carries no credential; absence of an address denial
		// is sufficient.
		log.Debug("allowed (NULL) address=%q", req.Address)
		return true, "", nil

	case zap.MechPlain:
		if password, ok := p.passwords[req.Username]; ok && password == req.Password {
			log.Debug("allowed (PLAIN) username=%q", req.Username)
			return true, req.Username, nil
		}
		log.Debug("denied (PLAIN) username=%q", req.Username)
		return false, "", nil

	case zap.MechCurve:
		keyText := req.ClientKeyText()
		if p.curveAllowAny {
			log.Debug("allowed (CURVE allow any) client_key=%q", keyText)
			return true, keyText, nil
		}
		if p.certs != nil {
			if cert, ok := p.certs.Lookup(keyText); ok {
				log.Debug("allowed (CURVE) client_key=%q", keyText)
				return true, keyText, encodeCertMetadata(cert, log)
			}
		}
		log.Debug("denied (CURVE) client_key=%q", keyText)
		return false, "", nil

	case zap.MechGssapi:
		// No principal validation is implemented upstream.
		log.Debug("allowed (GSSAPI) principal=%q", req.Principal)
		return true, req.Principal, nil

	default:
		log.Debug("denied (unknown mechanism %q)", req.RawMechanism)
		return false, "", nil
	}
}

// encodeCertMetadata propagates a certificate's metadata into the
// reply's binary form. Properties with names outside the ZAP charset
// cannot be carried and void the whole blob.
func encodeCertMetadata(cert *zcert.Cert, log *Logger) []byte {
	md := zap.NewMetadata()
	for _, key := range cert.MetaKeys() {
		md.Set(key, cert.Meta(key))
	}
	blob, err := md.Encode()
	if err != nil {
		log.Warn("certificate metadata not propagated: %v", err)
		return nil
	}
	return blob
}
