package protocol

import (
	"bytes"
	"fmt"

	"github.com/pickaxe/pickaxe-server/pkg/nbt"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// State names the five phases of the connection state machine, used to
// disambiguate packet ids (the wire reuses small integers across states).
type State int

const (
	StateHandshaking State = iota
	StateStatus
	StateLogin
	StateConfiguration
	StatePlay
)

// ProtocolVersion767 is the protocol version this adapter implements,
// corresponding to Minecraft Java Edition 1.21.1.
const ProtocolVersion767 = 767

// Adapter767 translates between the wire packet ids of protocol 767 and
// the version-agnostic internal Packet union. A future protocol version
// would get its own adapter implementing the same shape rather than
// branching inside this one.
type Adapter767 struct{}

// Decode parses a serverbound packet body (already framed, decompressed,
// and decrypted) in the given connection state. Unrecognized ids in
// Configuration and Play decode to Unknown rather than failing, since
// plugin channels and future packet kinds should not drop the connection;
// unrecognized ids in Handshaking/Status/Login are protocol violations.
func (Adapter767) Decode(state State, packetID int32, body []byte) (Packet, error) {
	r := bytes.NewReader(body)
	switch state {
	case StateHandshaking:
		return decodeHandshaking(packetID, r)
	case StateStatus:
		return decodeStatus(packetID, r)
	case StateLogin:
		return decodeLogin(packetID, r)
	case StateConfiguration:
		return decodeConfiguration(packetID, r, body)
	case StatePlay:
		return decodePlay(packetID, r, body)
	default:
		return nil, fmt.Errorf("protocol: unknown state %d", state)
	}
}

func decodeHandshaking(id int32, r *bytes.Reader) (Packet, error) {
	if id != 0x00 {
		return nil, fmt.Errorf("%w: handshaking 0x%02X", ErrUnknownPacket, id)
	}
	ver, _, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	addr, err := varint.ReadString(r)
	if err != nil {
		return nil, err
	}
	port, err := varint.ReadUint16(r)
	if err != nil {
		return nil, err
	}
	next, _, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &Handshake{ProtocolVersion: ver, ServerAddress: addr, ServerPort: port, NextState: next}, nil
}

func decodeStatus(id int32, r *bytes.Reader) (Packet, error) {
	switch id {
	case 0x00:
		return &StatusRequest{}, nil
	case 0x01:
		payload, err := varint.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return &PingRequest{Payload: payload}, nil
	default:
		return nil, fmt.Errorf("%w: status 0x%02X", ErrUnknownPacket, id)
	}
}

func decodeLogin(id int32, r *bytes.Reader) (Packet, error) {
	switch id {
	case 0x00:
		name, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		uid, err := varint.ReadUUID(r)
		if err != nil {
			return nil, err
		}
		return &LoginStart{Name: name, ClientUUID: uid}, nil
	case 0x03:
		return &LoginAcknowledged{}, nil
	default:
		return nil, fmt.Errorf("%w: login 0x%02X", ErrUnknownPacket, id)
	}
}

func decodeConfiguration(id int32, r *bytes.Reader, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		locale, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		viewDist, err := varint.ReadByte(r)
		if err != nil {
			return nil, err
		}
		return &ClientInformation{Locale: locale, ViewDistance: int8(viewDist)}, nil
	case 0x02:
		channel, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		rest := make([]byte, r.Len())
		if _, err := r.Read(rest); err != nil {
			return nil, err
		}
		return &PluginMessage{Channel: channel, Data: rest}, nil
	case 0x03:
		return &FinishConfigurationAck{}, nil
	case 0x07:
		count, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		packs := make([]KnownPack, 0, count)
		for i := int32(0); i < count; i++ {
			ns, err := varint.ReadString(r)
			if err != nil {
				return nil, err
			}
			pid, err := varint.ReadString(r)
			if err != nil {
				return nil, err
			}
			pv, err := varint.ReadString(r)
			if err != nil {
				return nil, err
			}
			packs = append(packs, KnownPack{Namespace: ns, ID: pid, Version: pv})
		}
		return &KnownPacksResponse{Packs: packs}, nil
	default:
		return &Unknown{ID: id, Data: append([]byte(nil), body...)}, nil
	}
}

func decodePlay(id int32, r *bytes.Reader, body []byte) (Packet, error) {
	switch id {
	case 0x00:
		seq, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &AcknowledgeBlockChange{SequenceID: seq}, nil
	case 0x06:
		cmd, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		ts, err := varint.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return &ChatCommand{Command: cmd, Timestamp: ts}, nil
	case 0x08:
		msg, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		ts, err := varint.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		salt, err := varint.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return &ChatMessage{Message: msg, Timestamp: ts, Salt: salt}, nil
	case 0x18:
		kid, err := varint.ReadInt64(r)
		if err != nil {
			return nil, err
		}
		return &KeepAliveServerbound{ID: kid}, nil
	case 0x19:
		pos, err := varint.ReadPosition(r)
		if err != nil {
			return nil, err
		}
		x, y, z := float64(pos.X), float64(pos.Y), float64(pos.Z)
		onGround, err := varint.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return &PlayerPosition{X: x, Y: y, Z: z, OnGround: onGround}, nil
	case 0x1A:
		x, err := varint.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		y, err := varint.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		z, err := varint.ReadFloat64(r)
		if err != nil {
			return nil, err
		}
		yaw, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		pitch, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		onGround, err := varint.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return &PlayerPositionAndRotation{X: x, Y: y, Z: z, Yaw: yaw, Pitch: pitch, OnGround: onGround}, nil
	case 0x1B:
		yaw, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		pitch, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		onGround, err := varint.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return &PlayerRotation{Yaw: yaw, Pitch: pitch, OnGround: onGround}, nil
	case 0x1C:
		onGround, err := varint.ReadBool(r)
		if err != nil {
			return nil, err
		}
		return &PlayerOnGround{OnGround: onGround}, nil
	case 0x24:
		status, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		pos, err := varint.ReadPosition(r)
		if err != nil {
			return nil, err
		}
		face, err := varint.ReadByte(r)
		if err != nil {
			return nil, err
		}
		seq, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &BlockDig{Status: status, Location: pos, Face: int8(face), SequenceID: seq}, nil
	case 0x38:
		hand, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		pos, err := varint.ReadPosition(r)
		if err != nil {
			return nil, err
		}
		face, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		cx, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		cy, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		cz, err := varint.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
		inside, err := varint.ReadBool(r)
		if err != nil {
			return nil, err
		}
		seq, _, err := varint.ReadVarInt(r)
		if err != nil {
			return nil, err
		}
		return &BlockPlace{Hand: hand, Location: pos, Face: face, CursorX: cx, CursorY: cy, CursorZ: cz, InsideBlock: inside, SequenceID: seq}, nil
	default:
		return &Unknown{ID: id, Data: append([]byte(nil), body...)}, nil
	}
}

// Encode serializes a clientbound Packet into a wire packet id and body.
func (Adapter767) Encode(p Packet) (int32, []byte, error) {
	var buf bytes.Buffer
	switch v := p.(type) {
	case *StatusResponse:
		varint.WriteString(&buf, v.JSON)
		return 0x00, buf.Bytes(), nil
	case *PongResponse:
		varint.WriteInt64(&buf, v.Payload)
		return 0x01, buf.Bytes(), nil
	case *SetCompression:
		varint.WriteVarInt(&buf, v.Threshold)
		return 0x03, buf.Bytes(), nil
	case *LoginSuccess:
		varint.WriteUUID(&buf, v.UUID)
		varint.WriteString(&buf, v.Name)
		varint.WriteVarInt(&buf, int32(len(v.Properties)))
		for _, prop := range v.Properties {
			varint.WriteString(&buf, prop.Name)
			varint.WriteString(&buf, prop.Value)
			varint.WriteBool(&buf, prop.HasSig)
			if prop.HasSig {
				varint.WriteString(&buf, prop.Signature)
			}
		}
		return 0x02, buf.Bytes(), nil
	case *KnownPacksRequest:
		varint.WriteVarInt(&buf, int32(len(v.Packs)))
		for _, pk := range v.Packs {
			varint.WriteString(&buf, pk.Namespace)
			varint.WriteString(&buf, pk.ID)
			varint.WriteString(&buf, pk.Version)
		}
		return 0x0E, buf.Bytes(), nil
	case *RegistryData:
		encodeRegistryData(&buf, v)
		return 0x07, buf.Bytes(), nil
	case *FinishConfiguration:
		return 0x03, buf.Bytes(), nil
	case *JoinGame:
		encodeJoinGame(&buf, v)
		return 0x2B, buf.Bytes(), nil
	case *SetCenterChunk:
		varint.WriteVarInt(&buf, v.ChunkX)
		varint.WriteVarInt(&buf, v.ChunkZ)
		return 0x57, buf.Bytes(), nil
	case *UnloadChunk:
		varint.WriteInt32(&buf, v.ChunkZ)
		varint.WriteInt32(&buf, v.ChunkX)
		return 0x21, buf.Bytes(), nil
	case *ChunkBatchStart:
		return 0x0C, buf.Bytes(), nil
	case *ChunkBatchFinished:
		varint.WriteVarInt(&buf, v.BatchSize)
		return 0x0D, buf.Bytes(), nil
	case *ChunkDataAndUpdateLight:
		encodeChunkData(&buf, v)
		return 0x27, buf.Bytes(), nil
	case *SynchronizePlayerPosition:
		encodeSyncPosition(&buf, v)
		return 0x41, buf.Bytes(), nil
	case *GameEvent:
		varint.WriteByte(&buf, byte(v.Event))
		varint.WriteFloat32(&buf, v.Value)
		return 0x22, buf.Bytes(), nil
	case *SetDefaultSpawnPosition:
		varint.WritePosition(&buf, v.Location)
		varint.WriteFloat32(&buf, v.Angle)
		return 0x5A, buf.Bytes(), nil
	case *PlayerInfoUpdate:
		encodePlayerInfoUpdate(&buf, v)
		return 0x3F, buf.Bytes(), nil
	case *PlayerInfoRemove:
		varint.WriteVarInt(&buf, int32(len(v.UUIDs)))
		for _, u := range v.UUIDs {
			varint.WriteUUID(&buf, u)
		}
		return 0x3E, buf.Bytes(), nil
	case *KeepAliveClientbound:
		varint.WriteInt64(&buf, v.ID)
		return 0x26, buf.Bytes(), nil
	case *Disconnect:
		varint.WriteString(&buf, v.Reason)
		return 0x1D, buf.Bytes(), nil
	case *BlockUpdate:
		varint.WritePosition(&buf, v.Location)
		varint.WriteVarInt(&buf, v.StateID)
		return 0x09, buf.Bytes(), nil
	case *AcknowledgeBlockChange:
		varint.WriteVarInt(&buf, v.SequenceID)
		return 0x05, buf.Bytes(), nil
	case *SystemChatMessage:
		varint.WriteString(&buf, v.Content)
		varint.WriteBool(&buf, v.IsActionBar)
		return 0x6C, buf.Bytes(), nil
	case *EntityEvent:
		varint.WriteInt32(&buf, v.EntityID)
		varint.WriteByte(&buf, byte(v.EventID))
		return 0x1F, buf.Bytes(), nil
	case *SoundEvent:
		encodeSoundEvent(&buf, v)
		return 0x68, buf.Bytes(), nil
	default:
		return 0, nil, fmt.Errorf("%w: %T", ErrWrongPacketType, p)
	}
}

func encodeRegistryData(buf *bytes.Buffer, v *RegistryData) {
	varint.WriteString(buf, v.RegistryID)
	varint.WriteVarInt(buf, int32(len(v.Entries)))
	for _, e := range v.Entries {
		varint.WriteString(buf, e.ID)
		hasData := e.Data != nil
		varint.WriteBool(buf, hasData)
		if hasData {
			buf.Write(e.Data)
		}
	}
}

func encodeJoinGame(buf *bytes.Buffer, v *JoinGame) {
	varint.WriteInt32(buf, v.EntityID)
	varint.WriteBool(buf, v.IsHardcore)
	varint.WriteVarInt(buf, int32(len(v.DimensionNames)))
	for _, n := range v.DimensionNames {
		varint.WriteString(buf, n)
	}
	varint.WriteVarInt(buf, v.MaxPlayers)
	varint.WriteVarInt(buf, v.ViewDistance)
	varint.WriteVarInt(buf, v.SimulationDist)
	varint.WriteBool(buf, v.ReducedDebugInfo)
	varint.WriteBool(buf, v.RespawnScreen)
	varint.WriteBool(buf, v.DoLimitedCrafting)
	varint.WriteVarInt(buf, v.DimensionType)
	varint.WriteString(buf, v.DimensionName)
	varint.WriteInt64(buf, v.Seed)
	varint.WriteByte(buf, v.GameMode)
	varint.WriteByte(buf, byte(v.PrevGameMode))
	varint.WriteBool(buf, v.IsDebug)
	varint.WriteBool(buf, v.IsFlat)
	varint.WriteBool(buf, v.HasDeathLocation)
	if v.HasDeathLocation {
		varint.WriteString(buf, v.DeathDimension)
		varint.WritePosition(buf, v.DeathLocation)
	}
	varint.WriteVarInt(buf, v.PortalCooldown)
	varint.WriteBool(buf, v.EnforcesSecure)
}

func encodeChunkData(buf *bytes.Buffer, v *ChunkDataAndUpdateLight) {
	varint.WriteInt32(buf, v.ChunkX)
	varint.WriteInt32(buf, v.ChunkZ)
	buf.Write(v.Heightmaps)
	varint.WriteVarInt(buf, int32(len(v.Data)))
	buf.Write(v.Data)
	varint.WriteVarInt(buf, int32(len(v.BlockEntities)))
	for _, be := range v.BlockEntities {
		varint.WriteByte(buf, be.PackedXZ)
		varint.WriteInt16(buf, be.Y)
		varint.WriteVarInt(buf, be.Type)
		buf.Write(be.Data)
	}
	writeLongArrayAsBitset(buf, v.SkyLightMask)
	writeLongArrayAsBitset(buf, v.BlockLightMask)
	writeLongArrayAsBitset(buf, v.EmptySkyMask)
	writeLongArrayAsBitset(buf, v.EmptyBlockMask)
	writeByteArrays(buf, v.SkyLightArrays)
	writeByteArrays(buf, v.BlockLightData)
}

func writeLongArrayAsBitset(buf *bytes.Buffer, longs []int64) {
	varint.WriteVarInt(buf, int32(len(longs)))
	for _, l := range longs {
		varint.WriteInt64(buf, l)
	}
}

func writeByteArrays(buf *bytes.Buffer, arrays [][]byte) {
	varint.WriteVarInt(buf, int32(len(arrays)))
	for _, a := range arrays {
		varint.WriteVarInt(buf, int32(len(a)))
		buf.Write(a)
	}
}

func encodeSyncPosition(buf *bytes.Buffer, v *SynchronizePlayerPosition) {
	varint.WriteFloat64(buf, v.X)
	varint.WriteFloat64(buf, v.Y)
	varint.WriteFloat64(buf, v.Z)
	varint.WriteFloat32(buf, v.Yaw)
	varint.WriteFloat32(buf, v.Pitch)
	varint.WriteByte(buf, v.Flags)
	varint.WriteVarInt(buf, v.TeleportID)
}

func encodePlayerInfoUpdate(buf *bytes.Buffer, v *PlayerInfoUpdate) {
	const actionAddPlayer = 0x01
	varint.WriteByte(buf, actionAddPlayer)
	varint.WriteVarInt(buf, int32(len(v.AddPlayer)))
	for _, a := range v.AddPlayer {
		varint.WriteUUID(buf, a.UUID)
		varint.WriteString(buf, a.Name)
		varint.WriteVarInt(buf, int32(len(a.Properties)))
		for _, prop := range a.Properties {
			varint.WriteString(buf, prop.Name)
			varint.WriteString(buf, prop.Value)
			varint.WriteBool(buf, prop.HasSig)
			if prop.HasSig {
				varint.WriteString(buf, prop.Signature)
			}
		}
	}
}

// encodeSoundEvent always writes holder index 0 (inline definition)
// rather than a registry reference, followed by the resource name and an
// optional fixed-range float, matching the inline-sound-event encoding.
func encodeSoundEvent(buf *bytes.Buffer, v *SoundEvent) {
	varint.WriteVarInt(buf, 0)
	varint.WriteString(buf, v.Name)
	hasFixedRange := v.FixedRange != nil
	varint.WriteBool(buf, hasFixedRange)
	if hasFixedRange {
		varint.WriteFloat32(buf, *v.FixedRange)
	}
	varint.WriteVarInt(buf, v.Category)
	varint.WriteInt32(buf, v.X)
	varint.WriteInt32(buf, v.Y)
	varint.WriteInt32(buf, v.Z)
	varint.WriteFloat32(buf, v.Volume)
	varint.WriteFloat32(buf, v.Pitch)
	varint.WriteInt64(buf, v.Seed)
}

// heightmapsToNetworkNBT renders a MOTION_BLOCKING-only Heightmaps
// compound in network NBT form (unnamed root), as ChunkDataAndUpdateLight
// requires.
func heightmapsToNetworkNBT(lanes []int64) []byte {
	tag := nbt.Compound(nbt.F("MOTION_BLOCKING", nbt.LongArray(lanes)))
	var buf bytes.Buffer
	if err := nbt.WriteNetworkRoot(&buf, tag); err != nil {
		panic("protocol: encode heightmaps: " + err.Error())
	}
	return buf.Bytes()
}

// HeightmapsPayload exposes heightmapsToNetworkNBT for callers assembling
// a ChunkDataAndUpdateLight packet outside this package.
func HeightmapsPayload(lanes []int64) []byte { return heightmapsToNetworkNBT(lanes) }
