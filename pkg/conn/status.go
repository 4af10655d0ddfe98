package conn

import (
	"encoding/json"
	"fmt"

	"github.com/pickaxe/pickaxe-server/pkg/protocol"
)

// StatusInfo carries the fields the server advertises in the status
// response (the server list ping).
type StatusInfo struct {
	MOTD           string
	MaxPlayers     int
	OnlinePlayers  int
	ProtocolName   string
}

type statusJSON struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
}

// ServeStatus answers a Status Request / Ping Request pair and returns,
// leaving the connection ready to be closed by the caller (Status never
// proceeds to another state).
func (c *Connection) ServeStatus(info StatusInfo) error {
	pkt, _, err := c.readPacket()
	if err != nil {
		return fmt.Errorf("conn: read status request: %w", err)
	}
	if _, ok := pkt.(*protocol.StatusRequest); !ok {
		return fmt.Errorf("conn: expected StatusRequest, got %T", pkt)
	}

	var body statusJSON
	body.Version.Name = "1.21.1"
	body.Version.Protocol = protocol.ProtocolVersion767
	body.Players.Max = info.MaxPlayers
	body.Players.Online = info.OnlinePlayers
	body.Description.Text = info.MOTD

	encoded, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("conn: marshal status response: %w", err)
	}
	if err := c.writePacket(&protocol.StatusResponse{JSON: string(encoded)}); err != nil {
		return err
	}

	pingPkt, _, err := c.readPacket()
	if err != nil {
		return fmt.Errorf("conn: read ping request: %w", err)
	}
	ping, ok := pingPkt.(*protocol.PingRequest)
	if !ok {
		return fmt.Errorf("conn: expected PingRequest, got %T", pingPkt)
	}
	return c.writePacket(&protocol.PongResponse{Payload: ping.Payload})
}
