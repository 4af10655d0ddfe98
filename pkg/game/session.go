package game

import (
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/pkg/conn"
)

// pendingAdmit is what a finished Configuration handoff places on the
// new-player queue for the tick loop to pick up next tick.
type pendingAdmit struct {
	handoff *conn.PlayHandoff
}

// runReader decodes packets off the socket and enqueues them until the
// connection closes, then closes the player's inbox so the tick loop
// learns of the disconnect on its next drain. It never touches game
// state directly, only the player's own queues.
func runReader(p *Player, log *zap.Logger) {
	defer p.inbox.Close()
	for {
		pkt, err := p.handoff.ReadPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug("reader stopped", zap.String("player", p.Username), zap.Error(err))
			}
			return
		}
		p.inbox.Send(inbound{pkt: pkt})
	}
}

// runWriter drains the player's outbox and writes each packet to the
// socket, suspending on the queue's notify channel between batches.
func runWriter(p *Player, log *zap.Logger) {
	for {
		pkts, closed := p.outbox.DrainAll()
		for _, pkt := range pkts {
			if err := p.handoff.WritePacket(pkt); err != nil {
				log.Debug("writer stopped", zap.String("player", p.Username), zap.Error(err))
				return
			}
		}
		if closed {
			return
		}
		if len(pkts) == 0 {
			p.outbox.Wait()
		}
	}
}
