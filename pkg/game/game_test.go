package game

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/internal/worldgen"
	"github.com/pickaxe/pickaxe-server/pkg/blocks"
	"github.com/pickaxe/pickaxe-server/pkg/conn"
	"github.com/pickaxe/pickaxe-server/pkg/protocol"
	"github.com/pickaxe/pickaxe-server/pkg/region"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

func testPlayer(eid int32, username string, viewDistance int32) *Player {
	p := newPlayer(eid, &conn.PlayHandoff{Username: username, ViewDistance: int8(viewDistance)})
	p.ViewDistance = viewDistance
	return p
}

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	storage := region.NewStorage(t.TempDir())
	l := New(zap.NewNop(), storage, worldgen.NewSuperflat(), nil)
	l.started = time.Now()
	return l
}

// --- queue ---

func TestQueueSendThenDrainAll(t *testing.T) {
	q := newQueue[int]()
	q.Send(1)
	q.Send(2)
	q.Send(3)

	got, closed := q.DrainAll()
	if closed {
		t.Fatal("queue reported closed before Close was called")
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected drain order: %v", got)
	}

	got, _ = q.DrainAll()
	if len(got) != 0 {
		t.Fatalf("expected empty drain after full drain, got %v", got)
	}
}

func TestQueueCloseReportedByDrainAll(t *testing.T) {
	q := newQueue[int]()
	q.Send(1)
	q.Close()

	got, closed := q.DrainAll()
	if !closed {
		t.Fatal("expected closed=true after Close")
	}
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected [1] still drained after close, got %v", got)
	}
}

func TestQueueSendAfterCloseIsDropped(t *testing.T) {
	q := newQueue[int]()
	q.Close()
	q.Send(42)

	got, closed := q.DrainAll()
	if !closed || len(got) != 0 {
		t.Fatalf("expected closed empty queue, got %v closed=%v", got, closed)
	}
}

func TestQueueWaitUnblocksOnSend(t *testing.T) {
	q := newQueue[int]()
	done := make(chan struct{})
	go func() {
		q.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned before any Send")
	case <-time.After(20 * time.Millisecond):
	}

	q.Send(7)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Send")
	}
}

func TestQueueWaitUnblocksOnClose(t *testing.T) {
	q := newQueue[int]()
	done := make(chan struct{})
	go func() {
		q.Wait()
		close(done)
	}()
	q.Close()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Close")
	}
}

// --- chunk streaming ball transitions ---

func TestChebyshevBallContainsExpectedCells(t *testing.T) {
	ball := chebyshevBall(0, 0, 1)
	if len(ball) != 9 {
		t.Fatalf("expected 9 cells for radius 1, got %d", len(ball))
	}
	if !ball[chunkKey{1, 1}] || !ball[chunkKey{-1, -1}] {
		t.Fatal("expected corner cells within Chebyshev radius 1")
	}
	if ball[chunkKey{2, 0}] {
		t.Fatal("cell at distance 2 should not be in radius-1 ball")
	}
}

func TestUpdateChunkCenterLoadsAndUnloads(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "alice", 1)

	l.updateChunkCenter(p, 0, 0)
	if len(p.loaded) != 9 {
		t.Fatalf("expected 9 loaded chunks after first center, got %d", len(p.loaded))
	}
	if !p.loaded[chunkKey{0, 0}] {
		t.Fatal("expected origin chunk loaded")
	}

	pkts, _ := p.outbox.DrainAll()
	var sawBatchStart, sawBatchFinish bool
	for _, pkt := range pkts {
		switch pkt.(type) {
		case *protocol.ChunkBatchStart:
			sawBatchStart = true
		case *protocol.ChunkBatchFinished:
			sawBatchFinish = true
		}
	}
	if !sawBatchStart || !sawBatchFinish {
		t.Fatal("expected a chunk batch start/finish pair on first load")
	}

	l.updateChunkCenter(p, 10, 10)
	if p.loaded[chunkKey{0, 0}] {
		t.Fatal("origin chunk should have been unloaded after moving far away")
	}
	if !p.loaded[chunkKey{10, 10}] {
		t.Fatal("expected new center chunk loaded")
	}

	pkts, _ = p.outbox.DrainAll()
	var sawUnload bool
	for _, pkt := range pkts {
		if u, ok := pkt.(*protocol.UnloadChunk); ok && u.ChunkX == 0 && u.ChunkZ == 0 {
			sawUnload = true
		}
	}
	if !sawUnload {
		t.Fatal("expected UnloadChunk for the chunk that left the view ball")
	}
}

// --- world ---

func TestWorldColumnAtGeneratesThenCaches(t *testing.T) {
	storage := region.NewStorage(t.TempDir())
	w := newWorld(storage, worldgen.NewSuperflat())

	col1 := w.columnAt(3, -2)
	col2 := w.columnAt(3, -2)
	if col1 != col2 {
		t.Fatal("expected cached column to be the same pointer on second access")
	}
}

func TestWorldSaveAndReloadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	storage := region.NewStorage(dir)
	w := newWorld(storage, worldgen.NewSuperflat())

	col := w.columnAt(1, 1)
	col.Set(5, 70, 5, int32(blocks.Air)+1)
	if err := w.save(1, 1); err != nil {
		t.Fatalf("save: %v", err)
	}

	w2 := newWorld(storage, worldgen.NewSuperflat())
	reloaded := w2.columnAt(1, 1)
	if got := reloaded.Get(5, 70, 5); got != int32(blocks.Air)+1 {
		t.Fatalf("expected reloaded column to keep the placed block, got %d", got)
	}
}

// --- handlers ---

func TestHandleBlockDigSetsAirAndBroadcasts(t *testing.T) {
	l := newTestLoop(t)
	digger := testPlayer(1, "digger", 4)
	onlooker := testPlayer(2, "onlooker", 4)
	l.players[1] = digger
	l.players[2] = onlooker

	stoneState := placeholderBlockState
	col := l.world.columnAt(0, 0)
	col.Set(0, 70, 0, stoneState)

	pos := varint.BlockPos{X: 0, Y: 70, Z: 0}
	l.handleBlockDig(digger, &protocol.BlockDig{Status: 0, Location: pos, SequenceID: 9})

	if got := col.Get(0, 70, 0); got != int32(blocks.Air) {
		t.Fatalf("expected air after dig, got %d", got)
	}

	diggerPkts, _ := digger.outbox.DrainAll()
	var diggerSawAck, diggerSawUpdate bool
	for _, pkt := range diggerPkts {
		switch pkt.(type) {
		case *protocol.AcknowledgeBlockChange:
			diggerSawAck = true
		case *protocol.BlockUpdate:
			diggerSawUpdate = true
		}
	}
	if !diggerSawAck || !diggerSawUpdate {
		t.Fatal("expected digger to receive BlockUpdate and AcknowledgeBlockChange")
	}

	onlookerPkts, _ := onlooker.outbox.DrainAll()
	var onlookerSawUpdate, onlookerSawAck bool
	for _, pkt := range onlookerPkts {
		switch pkt.(type) {
		case *protocol.BlockUpdate:
			onlookerSawUpdate = true
		case *protocol.AcknowledgeBlockChange:
			onlookerSawAck = true
		}
	}
	if !onlookerSawUpdate {
		t.Fatal("expected onlooker to receive the broadcast BlockUpdate")
	}
	if onlookerSawAck {
		t.Fatal("onlooker should not receive an ack meant for the digger")
	}
}

func TestHandleBlockDigIgnoresNonStartStatus(t *testing.T) {
	l := newTestLoop(t)
	digger := testPlayer(1, "digger", 4)
	l.players[1] = digger

	col := l.world.columnAt(0, 0)
	col.Set(0, 70, 0, placeholderBlockState)

	l.handleBlockDig(digger, &protocol.BlockDig{Status: 1, Location: varint.BlockPos{X: 0, Y: 70, Z: 0}})
	if got := col.Get(0, 70, 0); got != placeholderBlockState {
		t.Fatalf("expected block unchanged for non-start dig status, got %d", got)
	}
}

func TestHandleBlockPlaceUsesFaceOffset(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "placer", 4)
	l.players[1] = p

	// face 1 (+Y) above (0, 70, 0) should place at (0, 71, 0).
	l.handleBlockPlace(p, &protocol.BlockPlace{Location: varint.BlockPos{X: 0, Y: 70, Z: 0}, Face: 1, SequenceID: 3})

	col := l.world.columnAt(0, 0)
	if got := col.Get(0, 71, 0); got != placeholderBlockState {
		t.Fatalf("expected placeholder block at offset target, got %d", got)
	}
	if got := col.Get(0, 70, 0); got == placeholderBlockState {
		t.Fatal("placement should not overwrite the clicked block itself")
	}
}

func TestFaceOffsetMapping(t *testing.T) {
	cases := []struct {
		face           int32
		dx, dy, dz int32
	}{
		{0, 0, -1, 0},
		{1, 0, 1, 0},
		{2, 0, 0, -1},
		{3, 0, 0, 1},
		{4, -1, 0, 0},
		{5, 1, 0, 0},
	}
	for _, c := range cases {
		dx, dy, dz := faceOffset(c.face)
		if dx != c.dx || dy != c.dy || dz != c.dz {
			t.Fatalf("face %d: got (%d,%d,%d), want (%d,%d,%d)", c.face, dx, dy, dz, c.dx, c.dy, c.dz)
		}
	}
}

func TestHandleChatMessageBroadcastsUnlessCancelled(t *testing.T) {
	l := newTestLoop(t)
	speaker := testPlayer(1, "speaker", 4)
	listener := testPlayer(2, "listener", 4)
	l.players[1] = speaker
	l.players[2] = listener

	l.handleChatMessage(speaker, &protocol.ChatMessage{Message: "hello"})

	pkts, _ := listener.outbox.DrainAll()
	var saw bool
	for _, pkt := range pkts {
		if _, ok := pkt.(*protocol.SystemChatMessage); ok {
			saw = true
		}
	}
	if !saw {
		t.Fatal("expected listener to receive the chat broadcast")
	}
}

func TestHandleChatMessageCancelledByDispatcherIsNotBroadcast(t *testing.T) {
	l := newTestLoop(t)
	l.dispatcher = cancellingDispatcher{}
	speaker := testPlayer(1, "speaker", 4)
	listener := testPlayer(2, "listener", 4)
	l.players[1] = speaker
	l.players[2] = listener

	l.handleChatMessage(speaker, &protocol.ChatMessage{Message: "hello"})

	pkts, _ := listener.outbox.DrainAll()
	for _, pkt := range pkts {
		if _, ok := pkt.(*protocol.SystemChatMessage); ok {
			t.Fatal("cancelled chat should not be broadcast")
		}
	}
}

type cancellingDispatcher struct{}

func (cancellingDispatcher) Fire(name string, values map[string]any) bool { return true }

// --- keep-alive ---

func TestKeepAliveSendsTokenOnSchedule(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "alice", 4)
	l.players[1] = p
	l.tick.Store(KeepAliveIntervalTicks - 1)

	l.runKeepAlive()

	if p.keepAlivePending.Load() == 0 {
		t.Fatal("expected a keep-alive token to be pending after the scheduled tick")
	}
	pkts, _ := p.outbox.DrainAll()
	var saw bool
	for _, pkt := range pkts {
		if _, ok := pkt.(*protocol.KeepAliveClientbound); ok {
			saw = true
		}
	}
	if !saw {
		t.Fatal("expected KeepAliveClientbound to be enqueued")
	}
}

func TestKeepAliveAckClearsPendingToken(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "alice", 4)
	l.players[1] = p
	p.keepAlivePending.Store(123)
	p.keepAlivePendingSince.Store(l.nowNanos())

	l.handleKeepAlive(p, 123)

	if p.keepAlivePending.Load() != 0 {
		t.Fatal("expected pending token cleared after matching ack")
	}
}

func TestKeepAliveMismatchedAckIsIgnored(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "alice", 4)
	l.players[1] = p
	p.keepAlivePending.Store(123)

	l.handleKeepAlive(p, 999)

	if p.keepAlivePending.Load() != 123 {
		t.Fatal("mismatched ack should not clear the pending token")
	}
}

func TestKeepAliveTimeoutMarksPlayerForRemoval(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "alice", 4)
	l.players[1] = p
	p.keepAlivePending.Store(1)
	p.keepAlivePendingSince.Store(l.nowNanos() - int64(KeepAliveTimeout+time.Second))

	l.runKeepAlive()

	if _, ok := l.players[1]; !ok {
		t.Fatal("timed-out player should still be on the roster this tick")
	}
	if !p.markedForRemoval {
		t.Fatal("expected timed-out player marked for removal")
	}

	pkts, _ := p.outbox.DrainAll()
	var sawDisconnect bool
	for _, pkt := range pkts {
		if _, ok := pkt.(*protocol.Disconnect); ok {
			sawDisconnect = true
		}
	}
	if !sawDisconnect {
		t.Fatal("expected Disconnect enqueued for timed-out player")
	}

	disconnected := l.drainInbound()
	l.despawnDisconnected(disconnected)
	if _, ok := l.players[1]; ok {
		t.Fatal("expected marked-for-removal player despawned on the next drain pass")
	}
}

func TestSendJoinSequenceMatchesDocumentedSpawn(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "Steve", 1)

	l.sendJoinSequence(p)

	if p.X != 0.5 || p.Y != -59 || p.Z != 0.5 {
		t.Fatalf("spawn position = (%v,%v,%v), want (0.5,-59,0.5)", p.X, p.Y, p.Z)
	}

	pkts, _ := p.outbox.DrainAll()
	var sawJoin, sawSync, sawSpawn bool
	for _, pkt := range pkts {
		switch v := pkt.(type) {
		case *protocol.JoinGame:
			sawJoin = true
		case *protocol.SynchronizePlayerPosition:
			sawSync = true
			if v.X != 0.5 || v.Y != -59 || v.Z != 0.5 {
				t.Fatalf("SynchronizePlayerPosition = (%v,%v,%v), want (0.5,-59,0.5)", v.X, v.Y, v.Z)
			}
		case *protocol.SetDefaultSpawnPosition:
			sawSpawn = true
			want := varint.BlockPos{X: 0, Y: -60, Z: 0}
			if v.Location != want {
				t.Fatalf("SetDefaultSpawnPosition = %+v, want %+v", v.Location, want)
			}
		}
	}
	if !sawJoin || !sawSync || !sawSpawn {
		t.Fatal("expected JoinGame, SynchronizePlayerPosition, and SetDefaultSpawnPosition all enqueued")
	}
}

// --- admission / despawn ---

func TestDespawnDisconnectedRemovesPlayerAndBroadcasts(t *testing.T) {
	l := newTestLoop(t)
	leaving := testPlayer(1, "leaving", 4)
	staying := testPlayer(2, "staying", 4)
	l.players[1] = leaving
	l.players[2] = staying

	l.despawnDisconnected([]int32{1})

	if _, ok := l.players[1]; ok {
		t.Fatal("expected player 1 removed")
	}
	pkts, _ := staying.outbox.DrainAll()
	var saw bool
	for _, pkt := range pkts {
		if _, ok := pkt.(*protocol.PlayerInfoRemove); ok {
			saw = true
		}
	}
	if !saw {
		t.Fatal("expected remaining player to receive PlayerInfoRemove")
	}
}

func TestDrainInboundCollectsMarkedForRemovalPlayers(t *testing.T) {
	l := newTestLoop(t)
	p := testPlayer(1, "alice", 4)
	p.markedForRemoval = true
	l.players[1] = p

	disconnected := l.drainInbound()
	if len(disconnected) != 1 || disconnected[0] != 1 {
		t.Fatalf("expected player 1 collected for despawn, got %v", disconnected)
	}
}
