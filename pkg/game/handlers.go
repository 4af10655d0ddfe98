package game

import (
	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/pkg/blocks"
	"github.com/pickaxe/pickaxe-server/pkg/protocol"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// placeholderBlockState is used for BlockPlace: inventory tracking is out
// of scope, so every placement uses the same fixed block regardless of
// the item in hand.
var placeholderBlockState = func() int32 {
	s, _ := blocks.DefaultState("minecraft:stone")
	return int32(s)
}()

// faceOffset returns the position delta for a placement face code
// (0=-Y, 1=+Y, 2=-Z, 3=+Z, 4=-X, 5=+X).
func faceOffset(face int32) (dx, dy, dz int32) {
	switch face {
	case 0:
		return 0, -1, 0
	case 1:
		return 0, 1, 0
	case 2:
		return 0, 0, -1
	case 3:
		return 0, 0, 1
	case 4:
		return -1, 0, 0
	case 5:
		return 1, 0, 0
	default:
		return 0, 0, 0
	}
}

// handlePacket dispatches one decoded Play packet for player p according
// to the fixed handler table.
func (l *Loop) handlePacket(p *Player, pkt protocol.Packet) {
	switch v := pkt.(type) {
	case *protocol.PlayerPosition:
		l.handleMove(p, v.X, v.Y, v.Z, p.Yaw, p.Pitch, v.OnGround)
	case *protocol.PlayerPositionAndRotation:
		l.handleMove(p, v.X, v.Y, v.Z, v.Yaw, v.Pitch, v.OnGround)
	case *protocol.PlayerRotation:
		p.Yaw, p.Pitch, p.OnGround = v.Yaw, v.Pitch, v.OnGround
	case *protocol.PlayerOnGround:
		p.OnGround = v.OnGround
	case *protocol.KeepAliveServerbound:
		l.handleKeepAlive(p, v.ID)
	case *protocol.BlockDig:
		l.handleBlockDig(p, v)
	case *protocol.BlockPlace:
		l.handleBlockPlace(p, v)
	case *protocol.ChatMessage:
		l.handleChatMessage(p, v)
	case *protocol.ChatCommand:
		l.handleChatCommand(p, v)
	case *protocol.Unknown:
		l.log.Debug("ignoring unrecognized play packet", zap.Int32("id", v.ID), zap.String("player", p.Username))
	default:
		l.log.Debug("unhandled play packet", zap.String("player", p.Username))
	}
}

func (l *Loop) handleMove(p *Player, x, y, z float64, yaw, pitch float32, onGround bool) {
	moved := x != p.X || y != p.Y || z != p.Z
	p.X, p.Y, p.Z, p.Yaw, p.Pitch, p.OnGround = x, y, z, yaw, pitch, onGround
	if moved {
		newCX, newCZ := int32(p.X)>>4, int32(p.Z)>>4
		if newCX != p.CX || newCZ != p.CZ {
			l.updateChunkCenter(p, newCX, newCZ)
		}
		if l.dispatcher != nil {
			l.dispatcher.Fire("player_move", map[string]any{
				"entity_id": p.EntityID, "x": x, "y": y, "z": z,
			})
		}
	}
}

func (l *Loop) handleKeepAlive(p *Player, id int64) {
	if p.keepAlivePending.Load() != uint64(id) {
		return
	}
	p.keepAlivePending.Store(0)
}

func (l *Loop) handleBlockDig(p *Player, v *protocol.BlockDig) {
	if v.Status != 0 {
		return
	}
	col := l.world.columnAt(int32(v.Location.X)>>4, int32(v.Location.Z)>>4)
	lx := int(v.Location.X & 15)
	lz := int(v.Location.Z & 15)
	col.Set(lx, int(v.Location.Y), lz, int32(blocks.Air))

	p.enqueueOut(&protocol.BlockUpdate{Location: v.Location, StateID: int32(blocks.Air)})
	p.enqueueOut(&protocol.AcknowledgeBlockChange{SequenceID: v.SequenceID})
	l.broadcastExcept(p.EntityID, &protocol.BlockUpdate{Location: v.Location, StateID: int32(blocks.Air)})
}

func (l *Loop) handleBlockPlace(p *Player, v *protocol.BlockPlace) {
	dx, dy, dz := faceOffset(v.Face)
	target := varint.BlockPos{X: v.Location.X + dx, Y: v.Location.Y + dy, Z: v.Location.Z + dz}

	col := l.world.columnAt(target.X>>4, target.Z>>4)
	lx := int(target.X & 15)
	lz := int(target.Z & 15)
	col.Set(lx, int(target.Y), lz, placeholderBlockState)

	p.enqueueOut(&protocol.BlockUpdate{Location: target, StateID: placeholderBlockState})
	p.enqueueOut(&protocol.AcknowledgeBlockChange{SequenceID: v.SequenceID})
	l.broadcastExcept(p.EntityID, &protocol.BlockUpdate{Location: target, StateID: placeholderBlockState})
}

func (l *Loop) handleChatMessage(p *Player, v *protocol.ChatMessage) {
	cancelled := false
	if l.dispatcher != nil {
		cancelled = l.dispatcher.Fire("player_chat", map[string]any{
			"entity_id": p.EntityID, "username": p.Username, "text": v.Message,
		})
	}
	l.log.Info("chat", zap.String("player", p.Username), zap.String("text", v.Message))
	if cancelled {
		return
	}
	content := `{"text":"<` + p.Username + `> ` + v.Message + `"}`
	l.broadcastAll(&protocol.SystemChatMessage{Content: content})
}

func (l *Loop) handleChatCommand(p *Player, v *protocol.ChatCommand) {
	if l.dispatcher != nil {
		l.dispatcher.Fire("player_command", map[string]any{
			"entity_id": p.EntityID, "username": p.Username, "command": v.Command,
		})
	}
}
