package conn

import (
	"bytes"
	"fmt"
	"net"

	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/pkg/protocol"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// PlayHandoff carries a client's socket, framer and adapter into Play: it
// is the only type with exported Play-state ReadPacket/WritePacket
// methods. ToPlay copies those fields out of the Connection; the
// Connection itself is left as it was, and nothing stops a caller from
// calling its methods after the handoff.
type PlayHandoff struct {
	Conn     net.Conn
	Framer   *protocol.Framer
	Adapter  protocol.Adapter767
	Log      *zap.Logger
	Username string
	UUID     [16]byte
	ViewDistance int8
}

// ToPlay finalizes Configuration and produces the Play-state handoff,
// which shares c's socket and framer. c is not invalidated.
func (c *Connection) ToPlay(result ConfigResult) PlayHandoff {
	return PlayHandoff{
		Conn:         c.nc,
		Framer:       c.framer,
		Adapter:      c.adapter,
		Log:          c.log,
		Username:     result.Username,
		UUID:         result.UUID,
		ViewDistance: result.ViewDistance,
	}
}

// ReadPacket reads one Play-state packet.
func (h *PlayHandoff) ReadPacket() (protocol.Packet, error) {
	body, err := h.Framer.ReadFrame()
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(body)
	id, _, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("conn: read play packet id: %w", err)
	}
	rest := body[len(body)-r.Len():]
	return h.Adapter.Decode(protocol.StatePlay, id, rest)
}

// WritePacket writes one Play-state packet.
func (h *PlayHandoff) WritePacket(p protocol.Packet) error {
	id, body, err := h.Adapter.Encode(p)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	varint.WriteVarInt(&buf, id)
	buf.Write(body)
	return h.Framer.WriteFrame(buf.Bytes())
}

// Close closes the underlying socket.
func (h *PlayHandoff) Close() error { return h.Conn.Close() }
