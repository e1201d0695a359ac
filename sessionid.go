package tacplus

import (
	"crypto/rand"
	"encoding/binary"
)

// SessionIDSource supplies the random 32-bit session id each exchange
// on a Session is keyed by. RFC 8907 only requires unpredictability, not any
// particular source; WithSessionID bypasses this entirely for tests.
type SessionIDSource interface {
	NextSessionID() (uint32, error)
}

// cryptoRandSessionIDSource is the default SessionIDSource.
type cryptoRandSessionIDSource struct{}

func (cryptoRandSessionIDSource) NextSessionID() (uint32, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// DefaultSessionIDSource draws session ids from crypto/rand.
var DefaultSessionIDSource SessionIDSource = cryptoRandSessionIDSource{}

// fixedSessionIDSource always returns the same id, backing WithSessionID.
type fixedSessionIDSource uint32

func (f fixedSessionIDSource) NextSessionID() (uint32, error) {
	return uint32(f), nil
}
