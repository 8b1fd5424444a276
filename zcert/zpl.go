// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zcert

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNotExist marks a certificate path with neither a secret nor a
// public file.
var ErrNotExist = errors.New("zcert: certificate file not found")

const secretSuffix = "_secret"

// Load reads a certificate from disk. It prefers the full keypair at
// path+"_secret" and falls back to the public-only file at path; when
// neither exists it returns ErrNotExist.
func Load(path string) (*Cert, error) {
	cert, err := loadFile(path + secretSuffix)
	if err == nil {
		return cert, nil
	}
	if !os.IsNotExist(errors.Cause(err)) {
		return nil, err
	}
	cert, err = loadFile(path)
	if err == nil {
		return cert, nil
	}
	if os.IsNotExist(errors.Cause(err)) {
		return nil, errors.WithMessagef(ErrNotExist, "%q", path)
	}
	return nil, err
}

func loadFile(path string) (*Cert, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithMessage(err, "zcert: could not read certificate")
	}
	return parseZPL(data)
}

// parseZPL decodes the line-oriented certificate format: '#' comment
// lines, top-level section names ("metadata", "curve") and indented
// `key = "value"` entries.
func parseZPL(data []byte) (*Cert, error) {
	var (
		section    string
		publicText string
		secretText string
		metaKeys   []string
		meta       = make(map[string]string)
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indented := line[0] == ' ' || line[0] == '\t'
		if !indented {
			section = trimmed
			continue
		}

		key, value, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, fmt.Errorf("zcert: malformed line %q", trimmed)
		}
		key = strings.TrimSpace(key)
		value = unquoteValue(strings.TrimSpace(value))

		switch section {
		case "curve":
			switch key {
			case "public-key":
				publicText = value
			case "secret-key":
				secretText = value
			}
		case "metadata":
			if _, ok := meta[key]; !ok {
				metaKeys = append(metaKeys, key)
			}
			meta[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithMessage(err, "zcert: could not scan certificate")
	}
	if publicText == "" {
		return nil, fmt.Errorf("zcert: certificate has no public-key")
	}

	cert, err := NewCertFromTexts(publicText, secretText)
	if err != nil {
		return nil, err
	}
	for _, k := range metaKeys {
		cert.SetMeta(k, meta[k])
	}
	return cert, nil
}

// unquoteValue removes exactly one pair of surrounding double quotes,
// undoing escapes for values this package wrote itself. A value whose
// own content begins or ends with a quote must survive the round trip.
func unquoteValue(value string) string {
	if len(value) < 2 || value[0] != '"' || value[len(value)-1] != '"' {
		return value
	}
	if unquoted, err := strconv.Unquote(value); err == nil {
		return unquoted
	}
	return value[1 : len(value)-1]
}

// Save writes the certificate as the classic two-file pair: the public
// half at path and the full keypair at path+"_secret".
func (c *Cert) Save(path string) error {
	if err := c.SavePublic(path); err != nil {
		return err
	}
	return c.SaveSecret(path + secretSuffix)
}

// SavePublic writes only the public half of the certificate.
func (c *Cert) SavePublic(path string) error {
	var buf bytes.Buffer
	c.writeHeader(&buf, false)
	c.writeBody(&buf, false)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WithMessage(err, "zcert: could not write public certificate")
	}
	return nil
}

// SaveSecret writes the full keypair to path.
func (c *Cert) SaveSecret(path string) error {
	var buf bytes.Buffer
	c.writeHeader(&buf, true)
	c.writeBody(&buf, true)
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return errors.WithMessage(err, "zcert: could not write secret certificate")
	}
	return nil
}

func (c *Cert) writeHeader(buf *bytes.Buffer, secret bool) {
	fmt.Fprintf(buf, "#   ****  Generated on %s by zauth  ****\n", time.Now().Format(time.RFC3339))
	if secret {
		buf.WriteString("#   ZeroMQ CURVE **Secret** Certificate\n")
		buf.WriteString("#   DO NOT PROVIDE THIS FILE TO OTHER USERS nor change its permissions.\n")
	} else {
		buf.WriteString("#   ZeroMQ CURVE Public Certificate\n")
		buf.WriteString("#   Exchange securely, or use a secure mechanism to verify the contents\n")
		buf.WriteString("#   of this file after exchange.\n")
	}
	buf.WriteString("\n")
}

func (c *Cert) writeBody(buf *bytes.Buffer, secret bool) {
	buf.WriteString("metadata\n")
	for _, k := range c.metaKeys {
		fmt.Fprintf(buf, "    %s = %q\n", k, c.meta[k])
	}
	buf.WriteString("curve\n")
	fmt.Fprintf(buf, "    public-key = %q\n", c.publicText)
	if secret {
		fmt.Fprintf(buf, "    secret-key = %q\n", c.secretText)
	}
}
