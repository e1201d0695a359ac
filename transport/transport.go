// Package transport provides the byte-stream connections a session
// dials on demand. RFC 8907 runs over a single reliable connection per
// negotiation; there is no multiplexing or pooling to do here, unlike
// a request/response protocol that fans out across many peers.
package transport

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Transport is the stream a session reads and writes framed TACACS+
// packets over. net.Conn satisfies it directly.
type Transport interface {
	Read(b []byte) (int, error)
	Write(b []byte) (int, error)
	Close() error
}

// Factory yields a new Transport on demand. A session invokes it
// whenever it has no transport in hand — either on first use or after
// the previous one was discarded.
type Factory func(ctx context.Context) (Transport, error)

// DialTCP returns a Factory that dials addr fresh for every
// invocation.
func DialTCP(addr string) Factory {
	l := log.Logger.With().Str("caller", "transport<TCP>").Str("addr", addr).Logger()
	return func(ctx context.Context) (Transport, error) {
		l.Debug().Msg("dialing")
		var dialer net.Dialer
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("transport: tcp dial %s: %w", addr, err)
		}
		return &loggingConn{Conn: conn, log: l}, nil
	}
}

// DialTLS returns a Factory that dials addr fresh for every
// invocation and negotiates TLS using conf.
func DialTLS(addr string, conf *tls.Config) Factory {
	l := log.Logger.With().Str("caller", "transport<TLS>").Str("addr", addr).Logger()
	return func(ctx context.Context) (Transport, error) {
		l.Debug().Msg("dialing")
		dialer := tls.Dialer{Config: conf}
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, fmt.Errorf("transport: tls dial %s: %w", addr, err)
		}
		return &loggingConn{Conn: conn, log: l}, nil
	}
}

// loggingConn wraps a net.Conn, emitting a debug-level log line for
// every read, write, and close.
type loggingConn struct {
	net.Conn
	log zerolog.Logger
}

func (c *loggingConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	c.log.Debug().Int("bytes", n).Err(err).Msg("read")
	return n, err
}

func (c *loggingConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	c.log.Debug().Int("bytes", n).Err(err).Msg("write")
	return n, err
}

func (c *loggingConn) Close() error {
	c.log.Debug().Msg("closing")
	return c.Conn.Close()
}
