// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zauth implements a ZAP (ZeroMQ Authentication Protocol)
// handler: a single loop that answers the authentication requests the
// local messaging runtime raises for every connection handshake.
//
// The engine binds a ROUTER socket to the well-known endpoint
// "inproc://zeromq.zap.01". Each request names the peer's address,
// ZAP domain and security mechanism (NULL, PLAIN, CURVE or GSSAPI);
// the engine evaluates it against whitelist/blacklist address rules
// and mechanism credentials, and answers with an allow or deny reply.
//
// Policy is configured at runtime over an internal command pipe:
//
//	auth, err := zauth.New(ctx)
//	...
//	auth.Allow("127.0.0.1")
//	auth.ConfigureCurve("/etc/curve.d")
//	defer auth.Close()
//
// CURVE authorization consults a zcert.Store of certificate files; see
// the zcert and zap packages for the value objects and wire format.
package zauth
