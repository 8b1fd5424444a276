// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zap implements the wire format of the ZeroMQ Authentication
// Protocol (ZAP) as specified by:
// https://rfc.zeromq.org/spec/27/ZAP/
//
// A ZAP exchange is a request/reply pair on the well-known in-process
// endpoint. The handler side lives in the zauth package; this package
// holds the request parser, the reply encoder, the metadata codec and a
// requester for handshake code that needs to consult a running handler.
package zap

// Version is the only ZAP protocol version this package speaks.
const Version = "1.0"

// DefaultEndpoint is the well-known in-process endpoint a ZAP handler
// binds to, shared with every socket of the local messaging runtime.
const DefaultEndpoint = "inproc://zeromq.zap.01"

// Mechanism identifies the credential scheme announced by a connecting
// peer. It is decided once at parse time; unrecognized tokens map to
// MechUnknown and keep the raw token on the request.
type Mechanism int

const (
	MechNull Mechanism = iota
	MechPlain
	MechCurve
	MechGssapi
	MechUnknown
)

// String returns the wire token of the mechanism.
func (m Mechanism) String() string {
	switch m {
	case MechNull:
		return "NULL"
	case MechPlain:
		return "PLAIN"
	case MechCurve:
		return "CURVE"
	case MechGssapi:
		return "GSSAPI"
	default:
		return "UNKNOWN"
	}
}

func mechanismFromToken(token string) Mechanism {
	switch token {
	case "NULL":
		return MechNull
	case "PLAIN":
		return MechPlain
	case "CURVE":
		return MechCurve
	case "GSSAPI":
		return MechGssapi
	default:
		return MechUnknown
	}
}
