package conn

import (
	"crypto/md5"
	"fmt"

	"github.com/pickaxe/pickaxe-server/pkg/protocol"
)

// offlineUUID derives the deterministic offline-mode player UUID vanilla
// servers use when online-mode authentication is disabled: a version-3
// (name-based, MD5) UUID over "OfflinePlayer:<name>" with no namespace.
func offlineUUID(name string) [16]byte {
	out := md5.Sum([]byte("OfflinePlayer:" + name))
	out[6] = (out[6] & 0x0f) | 0x30 // version 3
	out[8] = (out[8] & 0x3f) | 0x80 // RFC 4122 variant
	return out
}

// LoginResult carries what the tick engine needs to admit a new player
// once Login and Configuration both complete.
type LoginResult struct {
	Username string
	UUID     [16]byte
}

// RunLogin executes the Login state: reads LoginStart, skips the
// encryption/authentication round trip (online-mode Mojang verification
// is out of scope), announces compression, and sends LoginSuccess.
func (c *Connection) RunLogin() (LoginResult, error) {
	pkt, _, err := c.readPacket()
	if err != nil {
		return LoginResult{}, fmt.Errorf("conn: read login start: %w", err)
	}
	start, ok := pkt.(*protocol.LoginStart)
	if !ok {
		return LoginResult{}, fmt.Errorf("conn: expected LoginStart, got %T", pkt)
	}

	playerUUID := offlineUUID(start.Name)

	if err := c.writePacket(&protocol.SetCompression{Threshold: CompressionThreshold}); err != nil {
		return LoginResult{}, fmt.Errorf("conn: write set compression: %w", err)
	}
	c.framer.EnableCompression(CompressionThreshold)

	if err := c.writePacket(&protocol.LoginSuccess{UUID: playerUUID, Name: start.Name}); err != nil {
		return LoginResult{}, fmt.Errorf("conn: write login success: %w", err)
	}

	ackPkt, _, err := c.readPacket()
	if err != nil {
		return LoginResult{}, fmt.Errorf("conn: read login acknowledged: %w", err)
	}
	if _, ok := ackPkt.(*protocol.LoginAcknowledged); !ok {
		return LoginResult{}, fmt.Errorf("conn: expected LoginAcknowledged, got %T", ackPkt)
	}

	c.state = protocol.StateConfiguration
	c.username = start.Name
	c.uuid = playerUUID
	return LoginResult{Username: start.Name, UUID: playerUUID}, nil
}
