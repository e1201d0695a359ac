// Package tacfakes provides in-memory transports and a scripted
// TACACS+ peer for exercising the session engine without a real
// network.
package tacfakes

import "io"

// Conn is an in-memory transport.Transport: it swaps a real socket
// for a pair of pipes so tests can drive both ends directly.
type Conn struct {
	Reader io.Reader
	Writer io.Writer
}

func (c *Conn) Read(p []byte) (int, error)  { return c.Reader.Read(p) }
func (c *Conn) Write(p []byte) (int, error) { return c.Writer.Write(p) }
func (c *Conn) Close() error                { return nil }

// NewConnPair returns two Conns, each writing into the other's
// reader: client.Write feeds server.Read and vice versa.
func NewConnPair() (client *Conn, server *Conn) {
	clientToServerR, clientToServerW := io.Pipe()
	serverToClientR, serverToClientW := io.Pipe()

	client = &Conn{Reader: serverToClientR, Writer: clientToServerW}
	server = &Conn{Reader: clientToServerR, Writer: serverToClientW}
	return client, server
}
