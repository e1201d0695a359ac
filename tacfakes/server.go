package tacfakes

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/tacplus/tacplus-go/wire"
)

// Server reads framed TACACS+ packets off a Conn and answers them one
// at a time using Handler, the way a real daemon would on the other
// end of the wire. It exists purely for tests; Handler receives the
// full raw frame (header + obfuscated body) and returns the full raw
// reply frame, leaving parsing/obfuscation to the wire package the
// same way a real client or server would use it.
type Server struct {
	Conn    *Conn
	Handler func(frame []byte) (replyFrame []byte, err error)
}

// Serve processes exchanges until the connection is closed or the
// handler errors. Intended to run in its own goroutine:
//
//	go server.Serve(t)
func (s *Server) Serve(t testing.TB) {
	t.Helper()
	for {
		header := make([]byte, wire.HeaderSizeBytes)
		if _, err := io.ReadFull(s.Conn, header); err != nil {
			if err == io.EOF || err == io.ErrClosedPipe {
				return
			}
			t.Errorf("tacfakes: header read: %v", err)
			return
		}

		bodyLength := binary.BigEndian.Uint32(header[8:12])
		body := make([]byte, bodyLength)
		if _, err := io.ReadFull(s.Conn, body); err != nil {
			t.Errorf("tacfakes: body read: %v", err)
			return
		}

		frame := append(header, body...)
		reply, err := s.Handler(frame)
		if err != nil {
			t.Errorf("tacfakes: handler: %v", err)
			return
		}

		if _, err := s.Conn.Write(reply); err != nil {
			t.Errorf("tacfakes: reply write: %v", err)
			return
		}
	}
}
