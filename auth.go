// Copyright 2025 The go-zeromq Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zauth

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/go-zeromq/zmq4"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/destiny/zauth/zap"
	"github.com/destiny/zauth/zcert"
)

// pipeSeq numbers the per-engine command pipe endpoints; inproc names
// are process-global.
var pipeSeq uint64

// Stats is a snapshot of the engine's request counters.
type Stats struct {
	Processed uint64 // requests parsed and answered
	Allowed   uint64 // 200 replies
	Denied    uint64 // 400 replies
	Dropped   uint64 // requests dropped without a reply
}

// Option configures an Auth engine.
type Option func(*Auth)

// WithLogger replaces the default error-level logger.
func WithLogger(log *Logger) Option {
	return func(a *Auth) { a.log = log }
}

// WithEndpoint overrides the well-known ZAP endpoint the engine binds.
// The messaging runtime consults only the default endpoint; overriding
// it is for tests and embedding.
func WithEndpoint(endpoint string) Option {
	return func(a *Auth) { a.endpoint = endpoint }
}

// Auth is a ZAP authentication engine. It owns a ROUTER socket bound
// to the ZAP endpoint and a PAIR command pipe; both are read by pump
// goroutines feeding a single loop goroutine, so all policy state is
// mutated from exactly one place. Every request carries its own routing
// envelope from receive to reply, so replies always reach the requester
// they answer, however many peers are connected at once.
//
// Until policies are configured, all NULL connections are allowed and
// all PLAIN and CURVE connections are denied, matching classic ZeroMQ
// behavior.
type Auth struct {
	endpoint string
	log      *Logger
	pol      *policy

	ctx    context.Context
	cancel context.CancelFunc
	grp    errgroup.Group

	zapSock zmq4.Socket // ROUTER, loop-owned
	pipeIn  zmq4.Socket // PAIR listener, loop-owned
	pipeOut zmq4.Socket // PAIR dialer, API side

	requests chan zmq4.Msg
	commands chan zmq4.Msg

	cmdMu sync.Mutex // serializes command/ack round-trips

	mu        sync.Mutex
	stats     Stats
	err       error
	closeOnce sync.Once
}

// New binds the engine sockets and starts the authentication loop.
func New(ctx context.Context, opts ...Option) (*Auth, error) {
	a := &Auth{
		endpoint: zap.DefaultEndpoint,
		log:      NewLogger(LogLevelError),
		pol:      newPolicy(),
		requests: make(chan zmq4.Msg),
		commands: make(chan zmq4.Msg),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.ctx, a.cancel = context.WithCancel(ctx)

	a.zapSock = zmq4.NewRouter(a.ctx)
	if err := a.zapSock.Listen(a.endpoint); err != nil {
		a.zapSock.Close()
		a.cancel()
		return nil, errors.WithMessagef(err, "zauth: could not bind ZAP endpoint %q", a.endpoint)
	}

	pipeEndpoint := fmt.Sprintf("inproc://zauth-pipe-%d", atomic.AddUint64(&pipeSeq, 1))
	a.pipeIn = zmq4.NewPair(a.ctx)
	if err := a.pipeIn.Listen(pipeEndpoint); err != nil {
		a.zapSock.Close()
		a.pipeIn.Close()
		a.cancel()
		return nil, errors.WithMessagef(err, "zauth: could not bind command pipe %q", pipeEndpoint)
	}
	a.pipeOut = zmq4.NewPair(a.ctx)
	if err := a.pipeOut.Dial(pipeEndpoint); err != nil {
		a.zapSock.Close()
		a.pipeIn.Close()
		a.pipeOut.Close()
		a.cancel()
		return nil, errors.WithMessagef(err, "zauth: could not dial command pipe %q", pipeEndpoint)
	}

	a.grp.Go(func() error { return a.pump(a.zapSock, a.requests) })
	a.grp.Go(func() error { return a.pump(a.pipeIn, a.commands) })
	a.grp.Go(a.run)

	a.log.Info("authentication engine bound to %q", a.endpoint)
	return a, nil
}

// isRetryable reports whether a transport error is a transient
// interruption that should be retried transparently.
func isRetryable(err error) bool {
	if errors.Is(err, syscall.EINTR) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// pump forwards every message received on sock into out until the
// engine stops. Retryable receive errors are swallowed; anything else
// is fatal and terminates the engine.
func (a *Auth) pump(sock zmq4.Socket, out chan<- zmq4.Msg) error {
	for {
		msg, err := sock.Recv()
		if err != nil {
			if a.ctx.Err() != nil {
				return nil
			}
			if isRetryable(err) {
				a.log.Debug("retrying interrupted receive: %v", err)
				continue
			}
			a.fail(errors.WithMessage(err, "zauth: receive failed"))
			return nil
		}
		select {
		case out <- msg:
		case <-a.ctx.Done():
			return nil
		}
	}
}

// run is the authentication loop: a select over the pumped request
// channel, the pumped command channel and cancellation. Requests are
// processed strictly in arrival order; a command and a request arriving
// in the same window may be handled in either order.
func (a *Auth) run() error {
	for {
		select {
		case <-a.ctx.Done():
			return nil
		case msg := <-a.commands:
			if !a.handleCommand(msg) {
				a.cancel()
				return nil
			}
		case msg := <-a.requests:
			a.handleRequest(msg)
		}
	}
}

// handleCommand dispatches one administrative command and acknowledges
// it. It returns false when the loop must terminate.
func (a *Auth) handleCommand(msg zmq4.Msg) bool {
	frames := msg.Frames
	if len(frames) == 0 {
		a.log.Error("empty command message")
		return true
	}
	keyword := string(frames[0])
	args := make([]string, 0, len(frames)-1)
	for _, frame := range frames[1:] {
		args = append(args, string(frame))
	}

	switch keyword {
	case cmdAllow:
		a.pol.allow(args...)
		a.log.Debug("whitelisted %q", args)

	case cmdDeny:
		a.pol.deny(args...)
		a.log.Debug("blacklisted %q", args)

	case cmdPlain:
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		table, err := loadPasswords(path)
		if err != nil {
			a.log.Error("password file %q: %v", path, err)
		}
		a.pol.passwords = table
		a.log.Debug("PLAIN policy loaded from %q (%d users)", path, len(table))

	case cmdCurve:
		location := ""
		if len(args) > 0 {
			location = args[0]
		}
		if location == CurveAllowAny {
			a.pol.curveAllowAny = true
			a.pol.certs = nil
			a.log.Debug("CURVE policy: allow any client")
		} else {
			store, err := zcert.NewStore(location)
			if err != nil {
				a.log.Error("certificate directory %q: %v", location, err)
				store, _ = zcert.NewStore("")
			}
			a.pol.curveAllowAny = false
			a.pol.certs = store
			a.log.Debug("CURVE policy: %d certificates from %q", store.Len(), location)
		}

	case cmdGssapi:
		// Accepted, unimplemented.

	case cmdVerbose:
		a.log.SetLevel(LogLevelDebug)
		a.log.Debug("verbose logging enabled")

	case cmdTerm:
		a.log.Info("terminating")
		return false

	default:
		a.log.Error("unknown command %q", keyword)
		return true // no ack for unknown commands
	}

	if err := a.pipeIn.Send(zmq4.NewMsg([]byte{ackByte})); err != nil && a.ctx.Err() == nil {
		a.fail(errors.WithMessage(err, "zauth: could not acknowledge command"))
		return false
	}
	return true
}

// splitEnvelope separates the routing envelope of an inbound request
// from the ZAP frames. The router prepends one peer identity frame;
// requesters speaking through a REQ-style socket add an empty delimiter
// frame, which stays with the envelope. The first ZAP frame is the
// version token and is never empty, so the split is unambiguous.
func splitEnvelope(frames [][]byte) (envelope, body [][]byte) {
	n := 1
	if len(frames) > 1 && len(frames[1]) == 0 {
		n = 2
	}
	if n > len(frames) {
		n = len(frames)
	}
	return frames[:n:n], frames[n:]
}

// handleRequest answers one ZAP request with exactly one reply sent
// over the request's own envelope, except for the malformed requests
// the protocol drops without answering.
func (a *Auth) handleRequest(msg zmq4.Msg) {
	envelope, body := splitEnvelope(msg.Frames)

	req, err := zap.ParseRequest(body)
	if err != nil {
		// Version mismatches and malformed credentials get no reply;
		// a requester waiting on a strict REQ socket will starve.
		a.log.Error("dropping request: %v", err)
		a.count(func(s *Stats) { s.Dropped++ })
		return
	}

	allowed, userID, metadata := a.pol.decide(req, a.log)

	rep := &zap.Reply{Sequence: req.Sequence}
	if allowed {
		rep.StatusCode = zap.StatusAllowed
		rep.StatusText = "OK"
		rep.UserID = userID
		rep.Metadata = metadata
	} else {
		rep.StatusCode = zap.StatusDenied
		rep.StatusText = "No access"
	}

	frames := append(envelope, rep.Frames()...)
	for {
		err := a.zapSock.Send(zmq4.NewMsgFrom(frames...))
		if err == nil {
			break
		}
		if isRetryable(err) {
			a.log.Debug("retrying interrupted send: %v", err)
			continue
		}
		if a.ctx.Err() == nil {
			a.fail(errors.WithMessage(err, "zauth: could not send reply"))
		}
		return
	}

	a.count(func(s *Stats) {
		s.Processed++
		if allowed {
			s.Allowed++
		} else {
			s.Denied++
		}
	})
}

// command performs one synchronous command/ack round-trip on the pipe.
func (a *Auth) command(frames [][]byte) error {
	a.cmdMu.Lock()
	defer a.cmdMu.Unlock()

	if err := a.pipeOut.Send(zmq4.NewMsgFrom(frames...)); err != nil {
		return errors.WithMessage(err, "zauth: could not send command")
	}
	msg, err := a.pipeOut.Recv()
	if err != nil {
		return errors.WithMessage(err, "zauth: could not receive command ack")
	}
	if len(msg.Frames) != 1 || len(msg.Frames[0]) != 1 || msg.Frames[0][0] != ackByte {
		return errors.Errorf("zauth: unexpected command ack %v", msg.Frames)
	}
	return nil
}

// Allow whitelists addresses. With a non-empty whitelist, requests from
// any other address are denied unless the blacklist clears them.
func (a *Auth) Allow(addrs ...string) error {
	return a.command(cmdFrames(cmdAllow, addrs...))
}

// Deny blacklists addresses. Blacklist membership denies every
// mechanism regardless of credentials, and evicts the address from the
// whitelist.
func (a *Auth) Deny(addrs ...string) error {
	return a.command(cmdFrames(cmdDeny, addrs...))
}

// ConfigurePlain replaces the PLAIN password table with the contents of
// a `name=value` file. A missing file installs an empty, deny-all
// table.
func (a *Auth) ConfigurePlain(path string) error {
	return a.command(cmdFrames(cmdPlain, path))
}

// ConfigureCurve sets the CURVE policy: CurveAllowAny accepts every
// client, any other location binds a certificate store to that
// directory, replacing the previous store wholesale.
func (a *Auth) ConfigureCurve(location string) error {
	return a.command(cmdFrames(cmdCurve, location))
}

// ConfigureGssapi enables the GSSAPI mechanism. Principal validation is
// not implemented; the command is accepted as a no-op.
func (a *Auth) ConfigureGssapi() error {
	return a.command(cmdFrames(cmdGssapi))
}

// Verbose enables diagnostic logging of every policy decision.
func (a *Auth) Verbose() error {
	return a.command(cmdFrames(cmdVerbose))
}

// Stats returns a snapshot of the request counters.
func (a *Auth) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// Err returns the first fatal engine error, if any.
func (a *Auth) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.err
}

func (a *Auth) count(update func(*Stats)) {
	a.mu.Lock()
	update(&a.stats)
	a.mu.Unlock()
}

func (a *Auth) fail(err error) {
	a.mu.Lock()
	if a.err == nil {
		a.err = err
	}
	a.mu.Unlock()
	a.log.Error("%v", err)
	a.cancel()
}

// Close terminates the loop, releases the sockets and waits for the
// engine goroutines. Close is idempotent; it returns the first fatal
// engine error observed, if any.
func (a *Auth) Close() error {
	a.closeOnce.Do(func() {
		a.cmdMu.Lock()
		// Best effort: let the loop see $TERM before teardown.
		_ = a.pipeOut.Send(zmq4.NewMsgFrom(cmdFrames(cmdTerm)...))
		a.cmdMu.Unlock()

		a.cancel()
		a.zapSock.Close()
		a.pipeIn.Close()
		a.pipeOut.Close()
		_ = a.grp.Wait()
	})
	return a.Err()
}
