// Package tacplus implements a RFC 8907 TACACS+ client: PAP, CHAP and
// ASCII authentication, single-round-trip authorization, and the
// accounting task lifecycle. A session keeps its connection across
// exchanges once the server confirms single-connection mode, and
// otherwise closes it after each exchange.
package tacplus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/tacplus/tacplus-go/transport"
	"github.com/tacplus/tacplus-go/wire"
)

// Session is a secret key (nil for the UNENCRYPTED debug escape hatch)
// plus the mutable state that must never be touched by two exchanges
// at once. A "session" in RFC 8907's sense — a random 32-bit id and a
// sequence counter restarting at 1 — is scoped to one top-level
// exchange, not to this Go value's lifetime: every call that goes
// through acquire draws a fresh session_id and resets the sequence
// counter, so a PAP login, an Authorize call, and a StartTask/Update/Stop
// on the same *Session each get their own RFC 8907 session. What does
// persist across exchanges is the cached Transport and the
// single-connection latch, per RFC 8907's connection reuse policy.
//
// Ownership is a strict tree: Session owns this state, this state
// owns the Transport. A Task (task.go) only borrows its Session.
type Session struct {
	factory transport.Factory
	key     []byte

	idSource SessionIDSource

	// sem enforces RFC 8907's single-asynchronous-mutex rule: at most
	// one exchange may be in flight on this session at a time.
	sem *semaphore.Weighted

	conn                  transport.Transport
	singleConnEstablished bool
	singleConnDecided     bool

	sessionID uint32
	nextSeq   uint8

	log     zerolog.Logger
	metrics *Metrics
	closed  bool
}

// SessionOption configures a Session at construction.
type SessionOption func(*Session) error

// WithLogger overrides the session's logger (default: DefaultLogger()).
func WithLogger(l zerolog.Logger) SessionOption {
	return func(s *Session) error {
		s.log = l
		return nil
	}
}

// WithMetrics attaches a Metrics set the session reports exchange
// outcomes to. Without this option, no instrumentation happens.
func WithMetrics(m *Metrics) SessionOption {
	return func(s *Session) error {
		s.metrics = m
		return nil
	}
}

// WithSessionID pins every exchange on this session to a fixed id
// instead of drawing a fresh one each time, mostly useful for
// deterministic tests.
func WithSessionID(id uint32) SessionOption {
	return func(s *Session) error {
		s.idSource = fixedSessionIDSource(id)
		return nil
	}
}

// NewSession creates a session that dials transports via factory on
// demand. key is the shared secret; pass nil to run UNENCRYPTED (a
// debug escape hatch RFC 8907 forbids in production).
func NewSession(factory transport.Factory, key []byte, opts ...SessionOption) (*Session, error) {
	s := &Session{
		factory:  factory,
		key:      key,
		idSource: DefaultSessionIDSource,
		sem:      semaphore.NewWeighted(1),
		log:      DefaultLogger(),
	}

	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Close discards any cached transport and refuses further exchanges.
func (s *Session) Close() error {
	if err := s.sem.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer s.sem.Release(1)

	s.closed = true
	s.log.Debug().Msg("session closed")
	return s.discardConnLocked()
}

func (s *Session) discardConnLocked() error {
	if s.conn == nil {
		return nil
	}
	s.log.Debug().Uint32("session_id", s.sessionID).Msg("discarding connection")
	s.metrics.observeReconnect()
	err := s.conn.Close()
	s.conn = nil
	return err
}

func (s *Session) transportLocked(ctx context.Context) (transport.Transport, error) {
	if s.conn != nil {
		return s.conn, nil
	}
	conn, err := s.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("tacplus: connecting: %w", err)
	}
	s.conn = conn
	return conn, nil
}

// acquire blocks until the session's single asynchronous mutex is
// free, draws a fresh RFC 8907 session id and sequence counter for the
// exchange about to start, then returns a release func. Every public
// exchange method calls this once for its whole logical flow (ASCII
// authentication spans several round trips but still counts as one
// exchange for locking, session-id/sequence, and connection-reuse
// purposes; accounting's start, update and stop records are each a
// separate exchange).
func (s *Session) acquire(ctx context.Context) (func(), error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	if err := s.beginExchangeLocked(); err != nil {
		s.sem.Release(1)
		return nil, err
	}
	return func() {
		s.finishExchangeLocked()
		s.sem.Release(1)
	}, nil
}

// beginExchangeLocked draws the session_id and resets the sequence
// counter this exchange will use. RFC 8907 keys each session by a
// random 32-bit id chosen at session creation, with sequence numbers
// restarting at 1; a Session value spans many such RFC 8907 sessions
// over its lifetime, one per top-level exchange.
func (s *Session) beginExchangeLocked() error {
	id, err := s.idSource.NextSessionID()
	if err != nil {
		return fmt.Errorf("tacplus: generating session id: %w", err)
	}
	s.sessionID = id
	s.nextSeq = 1
	s.log.Debug().Uint32("session_id", s.sessionID).Msg("starting exchange")
	return nil
}

// versionFor picks the header minor version an authentication exchange
// using authType must carry; authorization and accounting bodies
// always use the default minor version.
func versionFor(authType wire.AuthenticationType) wire.Version {
	minor, ok := authType.RequiredMinorVersion()
	if !ok {
		minor = wire.MinorDefault
	}
	return wire.NewVersion(minor)
}

// finishExchangeLocked applies RFC 8907's connection reuse policy:
// retain the transport only once single-connection mode has been
// confirmed by the server's first reply.
func (s *Session) finishExchangeLocked() {
	if !s.singleConnEstablished {
		_ = s.discardConnLocked()
	}
}

// roundTrip performs exactly one send/receive pair: it does not decide
// whether to keep the connection afterward, since a logical exchange
// (ASCII authentication in particular) may need several round trips
// before that decision is made. Callers must hold s.sem.
func roundTrip[Req wire.PacketBody, Rep wire.PacketBody](ctx context.Context, s *Session, version wire.Version, body Req, parse func([]byte, []byte) (wire.Packet[Rep], error)) (wire.Packet[Rep], error) {
	var zero wire.Packet[Rep]

	if s.closed {
		return zero, ErrSessionClosed
	}

	conn, err := s.transportLocked(ctx)
	if err != nil {
		return zero, err
	}

	clientSeq := s.nextSeq
	flags := wire.FlagSingleConnection
	header := wire.NewHeaderInfo(version, clientSeq, flags, s.sessionID)
	packet := wire.NewPacket[Req](header, body)

	buf := make([]byte, packet.WireSize())
	n, err := packet.Serialize(buf, s.key)
	if err != nil {
		return zero, wrapWire("serialize", err)
	}

	if _, err := conn.Write(buf[:n]); err != nil {
		s.log.Warn().Uint32("session_id", s.sessionID).Uint8("seq", clientSeq).Err(err).Msg("write failed")
		_ = s.discardConnLocked()
		return zero, wrapWire("write", err)
	}

	headerBuf := make([]byte, wire.HeaderSizeBytes)
	if _, err := io.ReadFull(conn, headerBuf); err != nil {
		s.log.Warn().Uint32("session_id", s.sessionID).Uint8("seq", clientSeq).Err(err).Msg("read header failed")
		_ = s.discardConnLocked()
		return zero, wrapWire("read header", err)
	}
	bodyLength := binary.BigEndian.Uint32(headerBuf[8:12])

	frame := make([]byte, wire.HeaderSizeBytes+int(bodyLength))
	copy(frame, headerBuf)
	if _, err := io.ReadFull(conn, frame[wire.HeaderSizeBytes:]); err != nil {
		s.log.Warn().Uint32("session_id", s.sessionID).Uint8("seq", clientSeq).Err(err).Msg("read body failed")
		_ = s.discardConnLocked()
		return zero, wrapWire("read body", err)
	}

	reply, err := parse(frame, s.key)
	if err != nil {
		// The framing boundary is lost once a frame fails to parse: the
		// stream may be left mid-message.
		s.log.Error().Uint32("session_id", s.sessionID).Uint8("seq", clientSeq).Err(err).Msg("deserialize failed")
		_ = s.discardConnLocked()
		return zero, wrapWire("deserialize", err)
	}

	expectedReplySeq := clientSeq + 1
	if reply.Header.SequenceNumber != expectedReplySeq {
		s.log.Warn().Uint32("session_id", s.sessionID).Uint8("got_seq", reply.Header.SequenceNumber).Uint8("want_seq", expectedReplySeq).Msg("unexpected sequence number")
		_ = s.discardConnLocked()
		return zero, ErrUnexpectedSequence
	}

	if !s.singleConnDecided {
		s.singleConnEstablished = reply.Header.Flags.Has(wire.FlagSingleConnection)
		s.singleConnDecided = true
		s.log.Debug().Uint32("session_id", s.sessionID).Bool("single_connection", s.singleConnEstablished).Msg("connection reuse negotiated")
	}

	s.nextSeq = expectedReplySeq + 1
	return reply, nil
}
