// Package game implements the 20Hz tick engine: the single goroutine
// that owns every player's entity state, the loaded world, and every
// outbound/inbound queue. Reader and writer goroutines never touch game
// state directly; they only move bytes through a player's queues.
package game

import (
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/internal/worldgen"
	"github.com/pickaxe/pickaxe-server/pkg/conn"
	"github.com/pickaxe/pickaxe-server/pkg/event"
	"github.com/pickaxe/pickaxe-server/pkg/protocol"
	"github.com/pickaxe/pickaxe-server/pkg/region"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// TickInterval is the fixed 20 TPS tick period.
const TickInterval = 50 * time.Millisecond

// KeepAliveIntervalTicks is how often (in ticks) the engine pings each player.
const KeepAliveIntervalTicks = 300

// KeepAliveTimeout is how long a pending keep-alive token may go
// unanswered before the player is disconnected.
const KeepAliveTimeout = 30 * time.Second

// Loop is the tick engine. Construct with New and run it with Run on its
// own goroutine.
type Loop struct {
	log        *zap.Logger
	dispatcher event.Dispatcher
	world      *world

	players     map[int32]*Player
	nextEID     atomic.Int32
	tick        atomic.Int64
	playerCount atomic.Int32
	started     time.Time

	newPlayers *queue[pendingAdmit]

	lastOverrunWarn time.Time
}

// New constructs a Loop backed by storage for chunk persistence and
// generator for chunks never saved before. dispatcher may be nil, in
// which case tick-originated events are simply not fired.
func New(log *zap.Logger, storage *region.Storage, generator worldgen.Generator, dispatcher event.Dispatcher) *Loop {
	return &Loop{
		log:        log,
		dispatcher: dispatcher,
		world:      newWorld(storage, generator),
		players:    make(map[int32]*Player),
		newPlayers: newQueue[pendingAdmit](),
	}
}

// Admit hands a fully configured connection to the tick loop: it queues
// it for admission on the next tick, where admitOne spawns the
// connection's reader/writer goroutines. The conn.PlayHandoff passed in
// is consumed; the caller has nothing left to do with it.
func (l *Loop) Admit(handoff conn.PlayHandoff) {
	h := handoff
	l.newPlayers.Send(pendingAdmit{handoff: &h})
}

func (l *Loop) nowNanos() int64 { return time.Since(l.started).Nanoseconds() }

// PlayerCount returns the number of currently connected players. Safe to
// call from any goroutine (e.g. a listener answering a status ping)
// since it is backed by an atomic counter rather than the tick-owned
// players map.
func (l *Loop) PlayerCount() int { return int(l.playerCount.Load()) }

// SaveAll persists every loaded chunk column back to the region store.
// Only safe to call once Run has returned (or before it starts): the
// world's columns map is otherwise owned exclusively by the tick
// goroutine.
func (l *Loop) SaveAll() error { return l.world.saveAll() }

// Run executes the tick loop until stopCh is closed (or receives a
// value), or forever if that never happens. It blocks the calling
// goroutine.
func (l *Loop) Run(stopCh <-chan struct{}) {
	l.started = time.Now()
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		tickStart := time.Now()

		l.admitNewPlayers()
		disconnected := l.drainInbound()
		l.despawnDisconnected(disconnected)
		l.runKeepAlive()

		elapsed := time.Since(tickStart)
		if elapsed > TickInterval {
			if time.Since(l.lastOverrunWarn) > time.Second {
				l.log.Warn("tick overran budget", zap.Duration("elapsed", elapsed))
				l.lastOverrunWarn = time.Now()
			}
			continue
		}

		select {
		case <-ticker.C:
		case <-stopCh:
			return
		}
	}
}

// admitNewPlayers is tick step 1.
func (l *Loop) admitNewPlayers() {
	pending, _ := l.newPlayers.DrainAll()
	for _, adm := range pending {
		l.admitOne(adm.handoff)
	}
}

func (l *Loop) admitOne(handoff *conn.PlayHandoff) {
	eid := l.nextEID.Add(1)
	p := newPlayer(eid, handoff)
	l.players[eid] = p
	l.playerCount.Add(1)

	go runReader(p, l.log)
	go runWriter(p, l.log)

	l.sendJoinSequence(p)
	l.broadcastInfoUpdateFor(p)

	l.log.Info("player admitted", zap.String("player", p.Username), zap.Int32("entity_id", eid))
}

// spawnX, spawnY, spawnZ are the fixed entry coordinates a freshly
// admitted player is placed at: inside the superflat's air layer, one
// block above the default spawn position.
const (
	spawnX, spawnY, spawnZ                      = 0.5, -59, 0.5
	defaultSpawnX, defaultSpawnY, defaultSpawnZ = 0, -60, 0
)

// sendJoinSequence enqueues JoinGame, the initial chunk batch, and the
// position/spawn packets a new player needs before appearing in the
// world. Split out of admitOne so it can be exercised without spawning
// the reader/writer goroutines.
func (l *Loop) sendJoinSequence(p *Player) {
	p.enqueueOut(&protocol.JoinGame{
		EntityID:         p.EntityID,
		IsHardcore:       false,
		DimensionNames:   []string{"minecraft:overworld"},
		MaxPlayers:       20,
		ViewDistance:     p.ViewDistance,
		SimulationDist:   p.ViewDistance,
		ReducedDebugInfo: false,
		RespawnScreen:    true,
		DimensionType:    0,
		DimensionName:    "minecraft:overworld",
		Seed:             0,
		GameMode:         uint8(GameModeSurvival),
		PrevGameMode:     -1,
		PortalCooldown:   0,
		EnforcesSecure:   false,
	})

	p.X, p.Y, p.Z = spawnX, spawnY, spawnZ
	l.updateChunkCenter(p, int32(p.X)>>4, int32(p.Z)>>4)

	p.enqueueOut(&protocol.SynchronizePlayerPosition{X: p.X, Y: p.Y, Z: p.Z, Yaw: 0, Pitch: 0, Flags: 0, TeleportID: 0})
	p.enqueueOut(&protocol.GameEvent{Event: 13, Value: 0})
	p.enqueueOut(&protocol.SetDefaultSpawnPosition{
		Location: varint.BlockPos{X: defaultSpawnX, Y: defaultSpawnY, Z: defaultSpawnZ},
		Angle:    0,
	})
}

// broadcastInfoUpdateFor sends PlayerInfoUpdate about the new player to
// everyone else, and the existing roster to the new player.
func (l *Loop) broadcastInfoUpdateFor(newP *Player) {
	self := protocol.PlayerInfoAddPlayer{UUID: newP.UUID, Name: newP.Username, GameMode: int32(newP.GameMode)}
	l.broadcastExcept(newP.EntityID, &protocol.PlayerInfoUpdate{AddPlayer: []protocol.PlayerInfoAddPlayer{self}})

	roster := make([]protocol.PlayerInfoAddPlayer, 0, len(l.players))
	for _, p := range l.players {
		roster = append(roster, protocol.PlayerInfoAddPlayer{UUID: p.UUID, Name: p.Username, GameMode: int32(p.GameMode)})
	}
	newP.enqueueOut(&protocol.PlayerInfoUpdate{AddPlayer: roster})
}

// drainInbound is tick step 2 and 4: non-blocking drain of each player's
// ingress queue, dispatching each decoded packet as it's seen. Returns
// the set of players whose inbox reported closed, plus every player
// already marked for removal (whose inbox is not drained).
func (l *Loop) drainInbound() []int32 {
	var disconnected []int32
	for eid, p := range l.players {
		if p.markedForRemoval {
			disconnected = append(disconnected, eid)
			continue
		}
		items, closed := p.inbox.DrainAll()
		for _, item := range items {
			l.handlePacket(p, item.pkt)
		}
		if closed {
			disconnected = append(disconnected, eid)
		}
	}
	return disconnected
}

// despawnDisconnected is tick step 3.
func (l *Loop) despawnDisconnected(eids []int32) {
	for _, eid := range eids {
		p, ok := l.players[eid]
		if !ok {
			continue
		}
		delete(l.players, eid)
		l.playerCount.Add(-1)
		p.outbox.Close()
		l.broadcastAll(&protocol.PlayerInfoRemove{UUIDs: [][16]byte{p.UUID}})
		l.log.Info("player removed", zap.String("player", p.Username), zap.Int32("entity_id", eid))
	}
}

// runKeepAlive is tick step 5. A player whose pending token times out is
// sent Disconnect and marked for removal; the actual despawn happens on
// the next tick's drainInbound/despawnDisconnected pass.
func (l *Loop) runKeepAlive() {
	tick := l.tick.Add(1)
	for _, p := range l.players {
		pending := p.keepAlivePending.Load()
		if pending != 0 {
			elapsed := time.Duration(l.nowNanos()-p.keepAlivePendingSince.Load()) * time.Nanosecond
			if elapsed >= KeepAliveTimeout {
				p.enqueueOut(&protocol.Disconnect{Reason: `{"text":"Timed out"}`})
				p.markedForRemoval = true
				continue
			}
		}
		if tick%KeepAliveIntervalTicks == 0 {
			token := uint64(l.nowNanos())
			p.keepAlivePending.Store(token)
			p.keepAlivePendingSince.Store(l.nowNanos())
			p.enqueueOut(&protocol.KeepAliveClientbound{ID: int64(token)})
		}
	}
}
