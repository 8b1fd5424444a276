// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zauth

// CurveAllowAny is the CURVE location that accepts any client key
// without consulting a certificate store.
const CurveAllowAny = "*"

// Administrative command keywords, one per first frame on the engine
// pipe. Arguments travel as subsequent frames. Every recognized command
// except $TERM is acknowledged with a single ack byte.
const (
	cmdAllow   = "ALLOW"
	cmdDeny    = "DENY"
	cmdPlain   = "PLAIN"
	cmdCurve   = "CURVE"
	cmdGssapi  = "GSSAPI"
	cmdVerbose = "VERBOSE"
	cmdTerm    = "$TERM"
)

// ackByte is the single-byte acknowledgment frame value.
const ackByte byte = 0x00

func cmdFrames(keyword string, args ...string) [][]byte {
	frames := make([][]byte, 0, 1+len(args))
	frames = append(frames, []byte(keyword))
	for _, arg := range args {
		frames = append(frames, []byte(arg))
	}
	return frames
}
