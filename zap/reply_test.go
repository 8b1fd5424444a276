// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zap

import (
	"bytes"
	"errors"
	"testing"
)

func TestReplyFrames(t *testing.T) {
	rep := &Reply{
		Sequence:   []byte("0042"),
		StatusCode: StatusAllowed,
		StatusText: "OK",
		UserID:     "alice",
	}

	frames := rep.Frames()
	if len(frames) != 6 {
		t.Fatalf("Expected 6 frames, got %d", len(frames))
	}
	if string(frames[0]) != "1.0" {
		t.Errorf("Expected version frame 1.0, got %q", frames[0])
	}
	if !bytes.Equal(frames[1], []byte("0042")) {
		t.Errorf("Expected sequence 0042, got %q", frames[1])
	}
	if string(frames[2]) != "200" {
		t.Errorf("Expected status 200, got %q", frames[2])
	}
	if string(frames[4]) != "alice" {
		t.Errorf("Expected user-id alice, got %q", frames[4])
	}
}

func TestReplyStatusCollapse(t *testing.T) {
	// Any code collapses to its hundreds family on the wire.
	cases := map[int]string{
		200: "200",
		247: "200",
		300: "300",
		399: "300",
		403: "400",
		456: "400",
		500: "500",
		599: "500",
	}
	for code, want := range cases {
		rep := &Reply{StatusCode: code}
		if got := string(rep.Frames()[2]); got != want {
			t.Errorf("Status %d: expected %q on the wire, got %q", code, want, got)
		}
	}
}

func TestReplyOK(t *testing.T) {
	if !(&Reply{StatusCode: 200}).OK() {
		t.Error("Expected 200 to be OK")
	}
	if !(&Reply{StatusCode: 255}).OK() {
		t.Error("Expected 255 to collapse into the 200 family")
	}
	if (&Reply{StatusCode: 400}).OK() {
		t.Error("Expected 400 to not be OK")
	}
}

func TestParseReplyRoundTrip(t *testing.T) {
	want := &Reply{
		Sequence:   []byte("seq"),
		StatusCode: StatusDenied,
		StatusText: "No access",
	}
	got, err := ParseReply(want.Frames())
	if err != nil {
		t.Fatalf("ParseReply failed: %v", err)
	}
	if got.StatusCode != StatusDenied || got.StatusText != "No access" {
		t.Errorf("Round-trip mismatch: %+v", got)
	}
	if got.UserID != "" {
		t.Errorf("Expected empty user-id on denial, got %q", got.UserID)
	}
}

func TestParseReplyMalformed(t *testing.T) {
	cases := [][][]byte{
		{[]byte("1.0")},
		{[]byte("2.0"), nil, []byte("200"), nil, nil, nil},
		{[]byte("1.0"), nil, []byte("abc"), nil, nil, nil},
	}
	for i, frames := range cases {
		if _, err := ParseReply(frames); !errors.Is(err, ErrBadReply) {
			t.Errorf("Case %d: expected ErrBadReply, got %v", i, err)
		}
	}
}
