package conn

import (
	"errors"
	"fmt"

	"github.com/pickaxe/pickaxe-server/pkg/protocol"
)

// ErrUnsupportedProtocolVersion is returned by RunHandshake when the
// client's declared protocol version does not match the version this
// adapter implements.
var ErrUnsupportedProtocolVersion = errors.New("conn: unsupported protocol version")

// NextAction tells the caller what to do after the handshake packet:
// either serve a status ping/response or proceed straight to login.
type NextAction int

const (
	NextStatus NextAction = iota
	NextLogin
)

// RunHandshake reads the single Handshake packet every connection starts
// with, validating the protocol version for anyone headed to Login (a
// version mismatch during Status is tolerated, since the status response
// itself reports the correct version back to the client).
func (c *Connection) RunHandshake() (NextAction, error) {
	pkt, _, err := c.readPacket()
	if err != nil {
		return 0, fmt.Errorf("conn: read handshake: %w", err)
	}
	hs, ok := pkt.(*protocol.Handshake)
	if !ok {
		return 0, fmt.Errorf("conn: expected Handshake, got %T", pkt)
	}

	switch hs.NextState {
	case 1:
		c.state = protocol.StateStatus
		return NextStatus, nil
	case 2:
		if hs.ProtocolVersion != protocol.ProtocolVersion767 {
			return 0, fmt.Errorf("%w: client sent %d, server is %d", ErrUnsupportedProtocolVersion, hs.ProtocolVersion, protocol.ProtocolVersion767)
		}
		c.state = protocol.StateLogin
		return NextLogin, nil
	default:
		return 0, fmt.Errorf("conn: handshake requested unknown next state %d", hs.NextState)
	}
}
