// Package protocol implements the Minecraft Java Edition wire protocol for
// protocol version 767 (1.21.1): frame codec, AES-128/CFB8 stream cipher,
// and a version adapter translating between wire packets and the
// version-agnostic internal packet union defined in this file.
package protocol

import "github.com/pickaxe/pickaxe-server/pkg/varint"

// Packet is the marker interface implemented by every internal packet
// variant. Variants carry only semantic fields, never packet IDs or
// encoding hints, so the game layer never depends on wire details.
type Packet interface{ isPacket() }

type base struct{}

func (base) isPacket() {}

// --- Handshaking state ---

type Handshake struct {
	base
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32 // 1 = Status, 2 = Login
}

// --- Status state ---

type StatusRequest struct{ base }

type StatusResponse struct {
	base
	JSON string
}

type PingRequest struct {
	base
	Payload int64
}

type PongResponse struct {
	base
	Payload int64
}

// --- Login state ---

type LoginStart struct {
	base
	Name       string
	ClientUUID [16]byte
}

type SetCompression struct {
	base
	Threshold int32
}

type LoginProperty struct {
	Name      string
	Value     string
	Signature string
	HasSig    bool
}

type LoginSuccess struct {
	base
	UUID       [16]byte
	Name       string
	Properties []LoginProperty
}

type LoginAcknowledged struct{ base }

// --- Configuration state ---

type ClientInformation struct {
	base
	Locale       string
	ViewDistance int8
}

type PluginMessage struct {
	base
	Channel string
	Data    []byte
}

type KnownPack struct {
	Namespace, ID, Version string
}

type KnownPacksRequest struct {
	base
	Packs []KnownPack
}

type KnownPacksResponse struct {
	base
	Packs []KnownPack
}

type RegistryEntry struct {
	ID   string
	Data []byte // network NBT payload, nil for "no data"
}

type RegistryData struct {
	base
	RegistryID string
	Entries    []RegistryEntry
}

type FinishConfiguration struct{ base }
type FinishConfigurationAck struct{ base }

// --- Play state ---

type JoinGame struct {
	base
	EntityID         int32
	IsHardcore       bool
	DimensionNames   []string
	MaxPlayers       int32
	ViewDistance     int32
	SimulationDist   int32
	ReducedDebugInfo bool
	RespawnScreen    bool
	DoLimitedCrafting bool
	DimensionType    int32
	DimensionName    string
	Seed             int64
	GameMode         uint8
	PrevGameMode     int8
	IsDebug          bool
	IsFlat           bool
	HasDeathLocation bool
	DeathDimension   string
	DeathLocation    varint.BlockPos
	PortalCooldown   int32
	EnforcesSecure   bool
}

type SetCenterChunk struct {
	base
	ChunkX, ChunkZ int32
}

// UnloadChunk carries its fields in z-before-x wire order.
type UnloadChunk struct {
	base
	ChunkZ, ChunkX int32
}

type ChunkBatchStart struct{ base }

type ChunkBatchFinished struct {
	base
	BatchSize int32
}

type BlockEntity struct {
	PackedXZ byte
	Y        int16
	Type     int32
	Data     []byte // network NBT payload
}

type ChunkDataAndUpdateLight struct {
	base
	ChunkX, ChunkZ int32
	Heightmaps     []byte // network NBT payload (Heightmaps compound)
	Data           []byte // serialized sections
	BlockEntities  []BlockEntity

	SkyLightMask   []int64
	BlockLightMask []int64
	EmptySkyMask   []int64
	EmptyBlockMask []int64
	SkyLightArrays [][]byte
	BlockLightData [][]byte
}

type SynchronizePlayerPosition struct {
	base
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      byte
	TeleportID int32
}

type GameEvent struct {
	base
	Event int8
	Value float32
}

type SetDefaultSpawnPosition struct {
	base
	Location varint.BlockPos
	Angle    float32
}

type PlayerInfoAddPlayer struct {
	UUID        [16]byte
	Name        string
	Properties  []LoginProperty
	GameMode    int32
	Ping        int32
	HasName     bool
	DisplayName string
}

type PlayerInfoUpdate struct {
	base
	AddPlayer []PlayerInfoAddPlayer
}

type PlayerInfoRemove struct {
	base
	UUIDs [][16]byte
}

type KeepAliveClientbound struct {
	base
	ID int64
}

type KeepAliveServerbound struct {
	base
	ID int64
}

type Disconnect struct {
	base
	Reason string // JSON text component
}

type BlockUpdate struct {
	base
	Location varint.BlockPos
	StateID  int32
}

type AcknowledgeBlockChange struct {
	base
	SequenceID int32
}

type SystemChatMessage struct {
	base
	Content     string // JSON text component
	IsActionBar bool
}

// EntityEvent carries a raw fixed-width entity id rather than a varint,
// an exception to the rest of the play-state packet catalog.
type EntityEvent struct {
	base
	EntityID int32
	EventID  int8
}

// SoundEvent encodes its sound as an inline resource location (holder
// index 0) followed by an optional fixed range marker, rather than a
// registry-id reference.
type SoundEvent struct {
	base
	Name          string
	FixedRange    *float32
	Category      int32
	X, Y, Z       int32 // fixed-point, block coordinate * 8
	Volume, Pitch float32
	Seed          int64
}

// --- Play state, serverbound ---

type PlayerPosition struct {
	base
	X, Y, Z  float64
	OnGround bool
}

type PlayerPositionAndRotation struct {
	base
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

type PlayerRotation struct {
	base
	Yaw, Pitch float32
	OnGround   bool
}

type PlayerOnGround struct {
	base
	OnGround bool
}

type BlockDig struct {
	base
	Status     int32 // 0 = started digging
	Location   varint.BlockPos
	Face       int8
	SequenceID int32
}

type BlockPlace struct {
	base
	Hand        int32
	Location    varint.BlockPos
	Face        int32
	CursorX     float32
	CursorY     float32
	CursorZ     float32
	InsideBlock bool
	SequenceID  int32
}

type ChatMessage struct {
	base
	Message   string
	Timestamp int64
	Salt      int64
}

type ChatCommand struct {
	base
	Command   string
	Timestamp int64
}

// Unknown wraps an unrecognized packet id so the connection can log and
// discard it without failing.
type Unknown struct {
	base
	ID   int32
	Data []byte
}
