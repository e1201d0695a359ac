package tacplus

import (
	"errors"
	"fmt"
)

// ProtocolError is returned when a server completes an exchange but
// replies with an Error or Follow status, on any body family. An
// authentication Restart is not a ProtocolError: it is mapped to
// AuthStatusFail (RFC 8907 section 5.4.3). The session itself is
// unaffected; it may still be reused if single-connection mode holds.
type ProtocolError struct {
	// Family names which exchange produced the error ("authentication",
	// "authorization", "accounting").
	Family string
	// ServerMessage is the human-readable text the server attached, if
	// any.
	ServerMessage string
	// Data is the raw server data attached to the failing reply.
	Data []byte
}

func (e *ProtocolError) Error() string {
	if e.ServerMessage != "" {
		return fmt.Sprintf("tacplus: %s: server error: %s", e.Family, e.ServerMessage)
	}
	return fmt.Sprintf("tacplus: %s: server error", e.Family)
}

// ErrSessionClosed is returned by any exchange attempted after the
// session's transport has been permanently discarded (Close called).
var ErrSessionClosed = errors.New("tacplus: session is closed")

// ErrUnexpectedSequence is returned when a reply's sequence number
// does not match the one the session was expecting next.
var ErrUnexpectedSequence = errors.New("tacplus: unexpected sequence number")

// wrapWire re-labels a wire-layer error as belonging to this session's
// vocabulary without losing the underlying sentinel for errors.Is.
func wrapWire(verb string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("tacplus: %s: %w", verb, err)
}
