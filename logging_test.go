// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zauth

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"
)

func TestLoggerLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerWithWriter(&buf, LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Output below the level leaked: %q", out)
	}
	if !strings.Contains(out, "[WARN]") || !strings.Contains(out, "[ERROR]") {
		t.Errorf("Expected WARN and ERROR lines, got %q", out)
	}

	l.SetLevel(LogLevelDebug)
	if !l.IsEnabled(LogLevelDebug) {
		t.Error("Expected debug to be enabled after SetLevel")
	}
}

// The level is raised by the loop goroutine while pump goroutines log
// concurrently; both sides must be race-free.
func TestLoggerConcurrentSetLevel(t *testing.T) {
	l := NewLoggerWithWriter(io.Discard, LogLevelError)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				l.Debug("worker %d", j)
			}
		}()
	}
	for j := 0; j < 200; j++ {
		l.SetLevel(LogLevelDebug)
		l.SetLevel(LogLevelError)
	}
	wg.Wait()
}
