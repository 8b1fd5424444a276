// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example certificate generator producing the two-file CURVE
// certificate pair consumed by a zauth certificate store.
package main

import (
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/destiny/zauth/zcert"
)

func main() {
	var (
		dir  = flag.String("dir", ".", "output directory")
		name = flag.String("name", "client", "certificate file name")
		meta = flag.String("meta", "", "comma-separated key=value metadata pairs")
	)
	flag.Parse()

	cert, err := zcert.NewCert()
	if err != nil {
		log.Fatalf("Failed to generate certificate: %v", err)
	}

	for _, pair := range strings.Split(*meta, ",") {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			log.Fatalf("Malformed metadata pair %q", pair)
		}
		cert.SetMeta(key, value)
	}

	path := filepath.Join(*dir, *name)
	if err := cert.Save(path); err != nil {
		log.Fatalf("Failed to save certificate: %v", err)
	}

	log.Printf("public key:  %s", cert.PublicText())
	log.Printf("certificate: %s (secret: %s_secret)", path, path)
}
