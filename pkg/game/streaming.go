package game

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/pickaxe/pickaxe-server/pkg/chunk"
	"github.com/pickaxe/pickaxe-server/pkg/protocol"
)

// fullBrightSkyLightMask is the 26-section bit pattern (0x03FFFFFF) the
// engine advertises for every streamed chunk: full-bright sky light and
// no block light, observably brighter than vanilla caves but accepted by
// any client as within-spec light data.
const fullBrightSkyLightMask = 0x03FFFFFF

var fullBrightSection = bytesOfOnes(2048)

func bytesOfOnes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xFF
	}
	return b
}

// chebyshevBall returns every (x, z) within Chebyshev distance r of
// (cx, cz), inclusive.
func chebyshevBall(cx, cz, r int32) map[chunkKey]bool {
	out := make(map[chunkKey]bool, (2*r+1)*(2*r+1))
	for x := cx - r; x <= cx+r; x++ {
		for z := cz - r; z <= cz+r; z++ {
			out[chunkKey{x, z}] = true
		}
	}
	return out
}

// updateChunkCenter recomputes a player's loaded-chunk set after its
// (cx, cz) changes, sending SetCenterChunk, UnloadChunk for chunks that
// left the ball, and a single chunk batch for chunks that entered it.
func (l *Loop) updateChunkCenter(p *Player, newCX, newCZ int32) {
	oldBall := chebyshevBallFromSet(p.loaded)
	newBall := chebyshevBall(newCX, newCZ, p.ViewDistance)

	p.CX, p.CZ = newCX, newCZ
	p.enqueueOut(&protocol.SetCenterChunk{ChunkX: newCX, ChunkZ: newCZ})

	for key := range oldBall {
		if !newBall[key] {
			p.enqueueOut(&protocol.UnloadChunk{ChunkX: key.x, ChunkZ: key.z})
			delete(p.loaded, key)
		}
	}

	toSend := make([]chunkKey, 0, len(newBall))
	for key := range newBall {
		if !oldBall[key] {
			toSend = append(toSend, key)
		}
	}

	p.enqueueOut(&protocol.ChunkBatchStart{})
	for _, key := range toSend {
		l.sendChunk(p, key.x, key.z)
		p.loaded[key] = true
	}
	p.enqueueOut(&protocol.ChunkBatchFinished{BatchSize: int32(len(toSend))})
}

func chebyshevBallFromSet(loaded map[chunkKey]bool) map[chunkKey]bool {
	out := make(map[chunkKey]bool, len(loaded))
	for k := range loaded {
		out[k] = true
	}
	return out
}

func (l *Loop) sendChunk(p *Player, cx, cz int32) {
	col := l.world.columnAt(cx, cz)
	lanes := col.MotionBlocking()

	var buf bytes.Buffer
	if err := col.Serialize(&buf); err != nil {
		l.log.Error("serialize chunk for streaming", zap.Error(err))
		return
	}
	sections := buf.Bytes()

	skyMask := make([]int64, 1)
	skyMask[0] = fullBrightSkyLightMask
	skyArrays := make([][]byte, chunk.SectionCount+2)
	for i := range skyArrays {
		skyArrays[i] = fullBrightSection
	}

	p.enqueueOut(&protocol.ChunkDataAndUpdateLight{
		ChunkX:         cx,
		ChunkZ:         cz,
		Heightmaps:     protocol.HeightmapsPayload(lanes[:]),
		Data:           sections,
		SkyLightMask:   skyMask,
		BlockLightMask: []int64{0},
		EmptySkyMask:   []int64{0},
		EmptyBlockMask: []int64{^int64(0)},
		SkyLightArrays: skyArrays,
	})
}
