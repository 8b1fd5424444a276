// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zap

import (
	"strconv"

	"github.com/pkg/errors"
)

// ZAP status code families. Any other code collapses to its hundreds
// digit on encoding; the protocol knows only these four.
const (
	StatusAllowed        = 200
	StatusTemporaryError = 300
	StatusDenied         = 400
	StatusInternalError  = 500
)

var ErrBadReply = errors.New("zap: malformed reply")

// Reply is one ZAP authentication reply. The version is fixed at "1.0",
// the sequence is copied verbatim from the request.
type Reply struct {
	Sequence   []byte
	StatusCode int
	StatusText string
	UserID     string // empty unless the status is 2xx
	Metadata   []byte // binary-encoded key/value records, see metadata.go
}

// OK reports whether the reply grants access.
func (rep *Reply) OK() bool {
	return collapseStatus(rep.StatusCode) == StatusAllowed
}

// collapseStatus normalizes a status code to its family: 247 becomes
// 200, 456 becomes 400. This is intentional ZAP behavior, not a
// general HTTP-style rounding.
func collapseStatus(code int) int {
	return code / 100 * 100
}

// Frames encodes the reply into its 6-frame wire form.
func (rep *Reply) Frames() [][]byte {
	return [][]byte{
		[]byte(Version),
		rep.Sequence,
		[]byte(strconv.Itoa(collapseStatus(rep.StatusCode))),
		[]byte(rep.StatusText),
		[]byte(rep.UserID),
		rep.Metadata,
	}
}

// ParseReply decodes the frames of one ZAP reply.
func ParseReply(frames [][]byte) (*Reply, error) {
	if len(frames) < 6 {
		return nil, errors.WithMessagef(ErrBadReply, "got %d frames, want 6", len(frames))
	}
	if string(frames[0]) != Version {
		return nil, errors.WithMessagef(ErrBadReply, "version %q", frames[0])
	}
	code, err := strconv.Atoi(string(frames[2]))
	if err != nil {
		return nil, errors.WithMessagef(ErrBadReply, "status code %q", frames[2])
	}
	return &Reply{
		Sequence:   frames[1],
		StatusCode: code,
		StatusText: string(frames[3]),
		UserID:     string(frames[4]),
		Metadata:   frames[5],
	}, nil
}
