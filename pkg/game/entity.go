package game

import (
	"go.uber.org/atomic"

	"github.com/pickaxe/pickaxe-server/pkg/conn"
	"github.com/pickaxe/pickaxe-server/pkg/protocol"
)

// GameMode mirrors the wire game mode byte values.
type GameMode uint8

const (
	GameModeSurvival GameMode = iota
	GameModeCreative
	GameModeAdventure
	GameModeSpectator
)

// inbound is one decoded Play packet handed from a reader task to the
// tick loop.
type inbound struct {
	pkt protocol.Packet
}

// Player is the tick loop's ECS-style record for one connected client.
// Every field is only ever touched from the tick goroutine except the
// handoff and the two queues, which the reader/writer tasks also use.
type Player struct {
	EntityID int32
	Username string
	UUID     [16]byte
	GameMode GameMode

	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool

	ViewDistance int32
	CX, CZ       int32 // current center chunk
	loaded       map[chunkKey]bool

	handoff *conn.PlayHandoff
	inbox   *queue[inbound]
	outbox  *queue[protocol.Packet]

	keepAlivePending      atomic.Uint64 // 0 = none pending
	keepAlivePendingSince atomic.Int64  // nanos (Loop-relative) the pending token was sent

	disconnectReason string
	markedForRemoval bool
}

type chunkKey struct{ x, z int32 }

func newPlayer(eid int32, handoff *conn.PlayHandoff) *Player {
	return &Player{
		EntityID:     eid,
		Username:     handoff.Username,
		UUID:         handoff.UUID,
		ViewDistance: int32(handoff.ViewDistance),
		loaded:       make(map[chunkKey]bool),
		handoff:      handoff,
		inbox:        newQueue[inbound](),
		outbox:       newQueue[protocol.Packet](),
	}
}

// enqueueOut places a packet on the player's outbound queue. A full
// (closed) queue is treated the same as a disconnect: the tick loop
// discovers it on the next drain.
func (p *Player) enqueueOut(pkt protocol.Packet) {
	p.outbox.Send(pkt)
}
