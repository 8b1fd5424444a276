// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Example ZAP authentication daemon restricting peers by address and
// CURVE certificate directory.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/destiny/zauth"
)

func main() {
	var (
		certDir = flag.String("cert-dir", "", "CURVE certificate directory ('*' allows any client)")
		allow   = flag.String("allow", "", "whitelisted peer address")
		deny    = flag.String("deny", "", "blacklisted peer address")
		plain   = flag.String("plain", "", "PLAIN password file (name=value lines)")
		verbose = flag.Bool("verbose", false, "log every policy decision")
	)
	flag.Parse()

	ctx := context.Background()
	auth, err := zauth.New(ctx)
	if err != nil {
		log.Fatalf("Failed to start authentication engine: %v", err)
	}
	defer auth.Close()

	if *verbose {
		if err := auth.Verbose(); err != nil {
			log.Fatalf("Failed to enable verbose logging: %v", err)
		}
	}
	if *allow != "" {
		if err := auth.Allow(*allow); err != nil {
			log.Fatalf("Failed to whitelist %q: %v", *allow, err)
		}
	}
	if *deny != "" {
		if err := auth.Deny(*deny); err != nil {
			log.Fatalf("Failed to blacklist %q: %v", *deny, err)
		}
	}
	if *plain != "" {
		if err := auth.ConfigurePlain(*plain); err != nil {
			log.Fatalf("Failed to load password file: %v", err)
		}
	}
	if *certDir != "" {
		if err := auth.ConfigureCurve(*certDir); err != nil {
			log.Fatalf("Failed to configure CURVE policy: %v", err)
		}
	}

	log.Printf("ZAP handler running, press Ctrl-C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	<-sig

	stats := auth.Stats()
	log.Printf("processed=%d allowed=%d denied=%d dropped=%d",
		stats.Processed, stats.Allowed, stats.Denied, stats.Dropped)
}
