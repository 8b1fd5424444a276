// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zap

import (
	"github.com/pkg/errors"

	"github.com/destiny/zauth/z85"
)

var (
	// ErrTruncated marks a request with fewer than the six leading
	// frames. The handler drops such requests without a reply.
	ErrTruncated = errors.New("zap: request has fewer than six frames")

	// ErrVersionMismatch marks a request from a peer speaking an
	// unsupported ZAP version. No reply is sent for these.
	ErrVersionMismatch = errors.New("zap: unsupported protocol version")

	// ErrKeySize marks a CURVE request whose credential frame is not
	// exactly 32 bytes.
	ErrKeySize = errors.New("zap: CURVE credential frame is not 32 bytes")
)

// Request is one parsed ZAP authentication request, built from the
// frames of a single inbound message and consumed within one handler
// iteration.
type Request struct {
	Version  string // protocol version, always "1.0" once parsed
	Sequence []byte // opaque correlation token, echoed back verbatim
	Domain   string // ZAP domain of the receiving socket
	Address  string // originating peer address
	Identity []byte // opaque connection identity

	Mechanism    Mechanism
	RawMechanism string // wire token, kept for MechUnknown diagnostics

	// Mechanism-specific credentials.
	Username  string            // PLAIN
	Password  string            // PLAIN
	ClientKey [z85.KeySize]byte // CURVE
	Principal string            // GSSAPI
}

// frameString returns frame i decoded as a string, or "" when the frame
// is missing, nil or empty. Missing trailing string fields normalize to
// the empty string, never to an absent value.
func frameString(frames [][]byte, i int) string {
	if i >= len(frames) {
		return ""
	}
	return string(frames[i])
}

// ParseRequest decodes the frames of one inbound ZAP request.
//
// The six leading frames are popped in order as version, sequence,
// domain, address, identity and mechanism. PLAIN requests carry two
// further frames (username, password), CURVE exactly one 32-byte public
// key, GSSAPI one principal frame.
//
// A short message yields ErrTruncated, a version other than "1.0"
// yields ErrVersionMismatch and a wrong-length CURVE key yields
// ErrKeySize. In all three cases the caller must not reply.
func ParseRequest(frames [][]byte) (*Request, error) {
	if len(frames) < 6 {
		return nil, ErrTruncated
	}

	req := &Request{
		Version:  frameString(frames, 0),
		Sequence: frames[1],
	}
	if req.Version != Version {
		// Peer speaks a ZAP version we do not support; stop parsing.
		return nil, errors.WithMessagef(ErrVersionMismatch, "got %q", req.Version)
	}

	req.Domain = frameString(frames, 2)
	req.Address = frameString(frames, 3)
	req.Identity = frames[4]
	req.RawMechanism = frameString(frames, 5)
	req.Mechanism = mechanismFromToken(req.RawMechanism)

	switch req.Mechanism {
	case MechPlain:
		req.Username = frameString(frames, 6)
		req.Password = frameString(frames, 7)
	case MechCurve:
		if len(frames) < 7 || len(frames[6]) != z85.KeySize {
			return nil, ErrKeySize
		}
		copy(req.ClientKey[:], frames[6])
	case MechGssapi:
		req.Principal = frameString(frames, 6)
	}

	return req, nil
}

// ClientKeyText returns the Z85 text form of the CURVE client key.
func (req *Request) ClientKeyText() string {
	return z85.EncodeKey(req.ClientKey)
}

// Frames encodes the request into its wire form. It is the inverse of
// ParseRequest and is used by the requester side and by tests.
func (req *Request) Frames() [][]byte {
	frames := [][]byte{
		[]byte(req.Version),
		req.Sequence,
		[]byte(req.Domain),
		[]byte(req.Address),
		req.Identity,
		[]byte(req.mechanismToken()),
	}
	switch req.Mechanism {
	case MechPlain:
		frames = append(frames, []byte(req.Username), []byte(req.Password))
	case MechCurve:
		key := req.ClientKey
		frames = append(frames, key[:])
	case MechGssapi:
		frames = append(frames, []byte(req.Principal))
	}
	return frames
}

func (req *Request) mechanismToken() string {
	if req.Mechanism == MechUnknown && req.RawMechanism != "" {
		return req.RawMechanism
	}
	return req.Mechanism.String()
}
