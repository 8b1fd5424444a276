// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zap

import (
	"bytes"
	"context"

	"github.com/go-zeromq/zmq4"
	"github.com/pkg/errors"
)

// Client queries a running ZAP handler over the in-process endpoint.
// It is the requester half of the protocol, meant for security
// mechanism implementations that delegate their authorization decision
// during the connection handshake.
//
// A Client holds a DEALER socket so that a request the handler chooses
// to drop (version mismatch, malformed credentials) does not wedge the
// requester forever the way a strict REQ socket would.
type Client struct {
	sock zmq4.Socket
}

// NewClient dials a ZAP handler. An empty endpoint means the well-known
// DefaultEndpoint.
func NewClient(ctx context.Context, endpoint string) (*Client, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	sock := zmq4.NewDealer(ctx)
	if err := sock.Dial(endpoint); err != nil {
		sock.Close()
		return nil, errors.WithMessagef(err, "zap: could not dial handler at %q", endpoint)
	}
	return &Client{sock: sock}, nil
}

// Authenticate sends one request and waits for the reply carrying the
// same sequence token. Replies for other sequences are discarded.
//
// When ctx expires before a reply arrives, Authenticate returns the
// context error; the pending receive is abandoned and the client should
// be closed.
func (c *Client) Authenticate(ctx context.Context, req *Request) (*Reply, error) {
	frames := append([][]byte{nil}, req.Frames()...)
	if err := c.sock.Send(zmq4.NewMsgFrom(frames...)); err != nil {
		return nil, errors.WithMessage(err, "zap: could not send request to handler")
	}

	type recvResult struct {
		msg zmq4.Msg
		err error
	}
	results := make(chan recvResult, 1)

	for {
		go func() {
			msg, err := c.sock.Recv()
			results <- recvResult{msg, err}
		}()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-results:
			if res.err != nil {
				return nil, errors.WithMessage(res.err, "zap: could not receive reply from handler")
			}
			rep, err := ParseReply(stripDelimiter(res.msg.Frames))
			if err != nil {
				return nil, err
			}
			if !bytes.Equal(rep.Sequence, req.Sequence) {
				continue
			}
			return rep, nil
		}
	}
}

// Close releases the handler connection.
func (c *Client) Close() error {
	return c.sock.Close()
}

// stripDelimiter drops the leading empty delimiter frame the handler
// echoes back as part of the reply envelope.
func stripDelimiter(frames [][]byte) [][]byte {
	if len(frames) > 0 && len(frames[0]) == 0 {
		return frames[1:]
	}
	return frames
}
