// Package conn drives a single client connection through the
// Handshaking, Status, Login, and Configuration protocol states. Reaching
// Play produces a PlayHandoff, the only type with exported Play-state
// packet read/write methods. The Connection is not invalidated by the
// handoff: its state-driving methods still compile and run against the
// same socket afterward.
package conn

import (
	"bytes"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/pkg/protocol"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// CompressionThreshold is the packet size (bytes) at or above which the
// server compresses outgoing packets once Login completes.
const CompressionThreshold = 256

// Connection represents a client working through Handshaking, Status,
// Login, or Configuration. Its zero value is not usable; construct one
// with Accept.
type Connection struct {
	nc      net.Conn
	framer  *protocol.Framer
	adapter protocol.Adapter767
	state   protocol.State
	log     *zap.Logger

	username string
	uuid     [16]byte
}

// Accept wraps a freshly dialed net.Conn for handshake processing.
func Accept(nc net.Conn, log *zap.Logger) *Connection {
	return &Connection{
		nc:      nc,
		framer:  protocol.NewFramer(nc, nc),
		adapter: protocol.Adapter767{},
		state:   protocol.StateHandshaking,
		log:     log,
	}
}

func (c *Connection) readPacket() (protocol.Packet, int32, error) {
	body, err := c.framer.ReadFrame()
	if err != nil {
		return nil, 0, err
	}
	r := bytes.NewReader(body)
	id, _, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, 0, fmt.Errorf("conn: read packet id: %w", err)
	}
	rest := body[len(body)-r.Len():]
	pkt, err := c.adapter.Decode(c.state, id, rest)
	return pkt, id, err
}

func (c *Connection) writePacket(p protocol.Packet) error {
	id, body, err := c.adapter.Encode(p)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	varint.WriteVarInt(&buf, id)
	buf.Write(body)
	return c.framer.WriteFrame(buf.Bytes())
}
