package conn

import (
	"fmt"

	"github.com/pickaxe/pickaxe-server/pkg/protocol"
)

// ConfigResult carries what Configuration negotiated before the
// connection hands off to Play.
type ConfigResult struct {
	Username     string
	UUID         [16]byte
	ViewDistance int8
}

// RunConfiguration drives the Configuration state to completion: waits
// for ClientInformation, negotiates known resource packs (the server
// advertises none, so every pack the client reports is simply
// acknowledged), sends the registries Play needs, and exchanges
// FinishConfiguration / its acknowledgement.
func (c *Connection) RunConfiguration() (ConfigResult, error) {
	var viewDistance int8 = 10
	var sentKnownPacks bool

	for {
		pkt, _, err := c.readPacket()
		if err != nil {
			return ConfigResult{}, fmt.Errorf("conn: read configuration packet: %w", err)
		}
		switch v := pkt.(type) {
		case *protocol.ClientInformation:
			viewDistance = v.ViewDistance
			if !sentKnownPacks {
				if err := c.writePacket(&protocol.KnownPacksRequest{}); err != nil {
					return ConfigResult{}, fmt.Errorf("conn: write known packs request: %w", err)
				}
				sentKnownPacks = true
			}
		case *protocol.PluginMessage:
			// plugin channels are acknowledged implicitly; no response required
		case *protocol.KnownPacksResponse:
			goto negotiated
		default:
			return ConfigResult{}, fmt.Errorf("conn: unexpected configuration packet %T", pkt)
		}
	}

negotiated:
	for _, reg := range protocol.InitialRegistries() {
		reg := reg
		if err := c.writePacket(&reg); err != nil {
			return ConfigResult{}, fmt.Errorf("conn: write registry data %s: %w", reg.RegistryID, err)
		}
	}

	if err := c.writePacket(&protocol.FinishConfiguration{}); err != nil {
		return ConfigResult{}, fmt.Errorf("conn: write finish configuration: %w", err)
	}

	ackPkt, _, err := c.readPacket()
	if err != nil {
		return ConfigResult{}, fmt.Errorf("conn: read finish configuration ack: %w", err)
	}
	if _, ok := ackPkt.(*protocol.FinishConfigurationAck); !ok {
		return ConfigResult{}, fmt.Errorf("conn: expected FinishConfigurationAck, got %T", ackPkt)
	}

	c.state = protocol.StatePlay
	return ConfigResult{Username: c.username, UUID: c.uuid, ViewDistance: viewDistance}, nil
}
