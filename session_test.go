package tacplus_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tacplus "github.com/tacplus/tacplus-go"
	"github.com/tacplus/tacplus-go/tacfakes"
	"github.com/tacplus/tacplus-go/transport"
	"github.com/tacplus/tacplus-go/wire"
)

func newTestSession(t *testing.T, key []byte, handler func(frame []byte) ([]byte, error)) (*tacplus.Session, func()) {
	t.Helper()
	client, server := tacfakes.NewConnPair()
	fake := &tacfakes.Server{Conn: server, Handler: handler}
	go fake.Serve(t)

	factory := transport.Factory(func(ctx context.Context) (transport.Transport, error) {
		return client, nil
	})

	sess, err := tacplus.NewSession(factory, key)
	require.NoError(t, err)
	return sess, func() { _ = sess.Close() }
}

func passReplyHandler(key []byte) func([]byte) ([]byte, error) {
	return func(frame []byte) ([]byte, error) {
		start, err := wire.DeserializeAuthenticationStart(frame, key)
		if err != nil {
			return nil, err
		}
		reply, err := wire.NewAuthenticationReply(wire.AuthenStatusPass, 0, wire.EmptyTextField, nil)
		if err != nil {
			return nil, err
		}
		header := wire.NewHeaderInfo(start.Header.Version, start.Header.SequenceNumber+1, wire.FlagSingleConnection, start.Header.SessionID)
		packet := wire.NewPacket[wire.AuthenticationReply](header, reply)
		out := make([]byte, packet.WireSize())
		n, err := packet.Serialize(out, key)
		if err != nil {
			return nil, err
		}
		return out[:n], nil
	}
}

func TestAuthenticatePAPSuccess(t *testing.T) {
	key := []byte("very secure key that is super secret")
	sess, cleanup := newTestSession(t, key, passReplyHandler(key))
	defer cleanup()

	ctx, err := tacplus.NewSessionContext("someuser", "rust_client", "tacacs_plus_rs", 0)
	require.NoError(t, err)

	resp, err := sess.AuthenticatePAP(context.Background(), ctx, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, tacplus.AuthStatusPass, resp.Status)
}

func TestAccountingTaskLifecycle(t *testing.T) {
	key := []byte("key")
	var taskIDs []string

	handler := func(frame []byte) ([]byte, error) {
		req, err := wire.DeserializeAccountingRequest(frame, key)
		if err != nil {
			return nil, err
		}
		for _, a := range req.Body.Arguments.Arguments() {
			if a.Name().String() == "task_id" {
				taskIDs = append(taskIDs, a.Value().String())
			}
		}
		reply, err := wire.NewAccountingReply(wire.AccountingStatusSuccess, wire.EmptyTextField, nil)
		if err != nil {
			return nil, err
		}
		header := wire.NewHeaderInfo(req.Header.Version, req.Header.SequenceNumber+1, wire.FlagSingleConnection, req.Header.SessionID)
		packet := wire.NewPacket[wire.AccountingReply](header, reply)
		out := make([]byte, packet.WireSize())
		n, err := packet.Serialize(out, key)
		if err != nil {
			return nil, err
		}
		return out[:n], nil
	}

	sess, cleanup := newTestSession(t, key, handler)
	defer cleanup()

	sessCtx, err := tacplus.NewSessionContext("someuser", "port", "addr", 0)
	require.NoError(t, err)

	task, startResp, err := sess.StartTask(context.Background(), sessCtx, wire.AuthenticationMethodTacacsPlus, nil)
	require.NoError(t, err)
	_ = startResp

	_, err = task.Update(context.Background(), nil)
	require.NoError(t, err)

	_, err = task.Stop(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, taskIDs, 3)
	assert.Equal(t, taskIDs[0], taskIDs[1])
	assert.Equal(t, taskIDs[1], taskIDs[2])
}

// TestSessionIDAndSequenceRestartPerExchange pins down that a PAP
// login followed by an accounting task lifecycle on the same *Session
// each get their own RFC 8907 session: a fresh session_id and a
// sequence counter starting at 1, never carried over from the
// previous exchange.
func TestSessionIDAndSequenceRestartPerExchange(t *testing.T) {
	key := []byte("key")

	type observed struct {
		sessionID uint32
		seq       uint8
	}
	var seen []observed

	handler := func(frame []byte) ([]byte, error) {
		switch wire.PacketType(frame[1]) {
		case wire.PacketTypeAuthentication:
			start, err := wire.DeserializeAuthenticationStart(frame, key)
			if err != nil {
				return nil, err
			}
			seen = append(seen, observed{start.Header.SessionID, start.Header.SequenceNumber})

			reply, err := wire.NewAuthenticationReply(wire.AuthenStatusPass, 0, wire.EmptyTextField, nil)
			if err != nil {
				return nil, err
			}
			header := wire.NewHeaderInfo(start.Header.Version, start.Header.SequenceNumber+1, wire.FlagSingleConnection, start.Header.SessionID)
			packet := wire.NewPacket[wire.AuthenticationReply](header, reply)
			out := make([]byte, packet.WireSize())
			n, err := packet.Serialize(out, key)
			return out[:n], err

		case wire.PacketTypeAccounting:
			req, err := wire.DeserializeAccountingRequest(frame, key)
			if err != nil {
				return nil, err
			}
			seen = append(seen, observed{req.Header.SessionID, req.Header.SequenceNumber})

			reply, err := wire.NewAccountingReply(wire.AccountingStatusSuccess, wire.EmptyTextField, nil)
			if err != nil {
				return nil, err
			}
			header := wire.NewHeaderInfo(req.Header.Version, req.Header.SequenceNumber+1, wire.FlagSingleConnection, req.Header.SessionID)
			packet := wire.NewPacket[wire.AccountingReply](header, reply)
			out := make([]byte, packet.WireSize())
			n, err := packet.Serialize(out, key)
			return out[:n], err

		default:
			return nil, fmt.Errorf("unexpected packet type in test: %s", wire.PacketType(frame[1]))
		}
	}

	sess, cleanup := newTestSession(t, key, handler)
	defer cleanup()

	sessCtx, err := tacplus.NewSessionContext("someuser", "port", "addr", 0)
	require.NoError(t, err)

	_, err = sess.AuthenticatePAP(context.Background(), sessCtx, "hunter2")
	require.NoError(t, err)

	task, _, err := sess.StartTask(context.Background(), sessCtx, wire.AuthenticationMethodTacacsPlus, nil)
	require.NoError(t, err)
	_, err = task.Update(context.Background(), nil)
	require.NoError(t, err)
	_, err = task.Stop(context.Background(), nil)
	require.NoError(t, err)

	require.Len(t, seen, 4)
	for _, o := range seen {
		assert.EqualValues(t, 1, o.seq, "every top-level exchange must start its sequence at 1")
	}

	ids := make(map[uint32]bool)
	for _, o := range seen {
		ids[o.sessionID] = true
	}
	assert.Len(t, ids, 4, "every top-level exchange must draw its own session_id")
}
