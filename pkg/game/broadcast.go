package game

import "github.com/pickaxe/pickaxe-server/pkg/protocol"

// broadcastAll enqueues packet to every connected player's outbound
// queue. Enqueueing is non-blocking by construction (queue.Send never
// blocks); a closed queue is silently dropped here and discovered as a
// disconnect on the next drain pass.
func (l *Loop) broadcastAll(pkt protocol.Packet) {
	for _, p := range l.players {
		p.enqueueOut(pkt)
	}
}

// broadcastExcept enqueues packet to every connected player except the
// one with the given entity id.
func (l *Loop) broadcastExcept(eid int32, pkt protocol.Packet) {
	for id, p := range l.players {
		if id == eid {
			continue
		}
		p.enqueueOut(pkt)
	}
}
