package chunk

import "testing"

func TestSingleValuedSection(t *testing.T) {
	s := Single(5)
	if s.bitsPerEntry != 0 {
		t.Errorf("single-valued section should have bitsPerEntry 0, got %d", s.bitsPerEntry)
	}
	if got := s.Get(3, 4, 5); got != 5 {
		t.Errorf("Get = %d, want 5", got)
	}
}

func TestFromBlocksMatchesGet(t *testing.T) {
	var cells [CellsPerSection]int32
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				cells[cellIndex(x, y, z)] = int32(x + z*2 + y*3)
			}
		}
	}
	s := FromBlocks(cells)
	for y := 0; y < 16; y++ {
		for z := 0; z < 16; z++ {
			for x := 0; x < 16; x++ {
				want := cells[cellIndex(x, y, z)]
				if got := s.Get(x, y, z); got != want {
					t.Fatalf("Get(%d,%d,%d) = %d, want %d", x, y, z, got, want)
				}
			}
		}
	}
}

func TestFromBlocksUniformCollapses(t *testing.T) {
	var cells [CellsPerSection]int32
	for i := range cells {
		cells[i] = 7
	}
	s := FromBlocks(cells)
	if s.bitsPerEntry != 0 || len(s.palette) != 1 {
		t.Errorf("uniform FromBlocks should collapse to single-valued, got bpe=%d palette=%v", s.bitsPerEntry, s.palette)
	}
}

func TestSetUpdatesOnlyTargetCell(t *testing.T) {
	s := Empty()
	old := s.Set(1, 2, 3, 42)
	if old != 0 {
		t.Errorf("old value = %d, want 0", old)
	}
	if got := s.Get(1, 2, 3); got != 42 {
		t.Errorf("Get after Set = %d, want 42", got)
	}
	if got := s.Get(0, 0, 0); got != 0 {
		t.Errorf("unrelated cell changed: %d", got)
	}
}

func TestBlockCountExcludesOnlyAir(t *testing.T) {
	var cells [CellsPerSection]int32
	cells[0] = 0
	cells[1] = 5
	cells[2] = 5
	s := FromBlocks(cells)
	if s.BlockCount() != 2 {
		t.Errorf("block count = %d, want 2", s.BlockCount())
	}
}

func TestColumnSetGetAcrossSections(t *testing.T) {
	col := NewColumn(0, 0)
	col.Set(1, -64, 1, 10)
	col.Set(1, 319, 1, 20)
	col.Set(1, 0, 1, 30)
	if got := col.Get(1, -64, 1); got != 10 {
		t.Errorf("bottom section get = %d, want 10", got)
	}
	if got := col.Get(1, 319, 1); got != 20 {
		t.Errorf("top section get = %d, want 20", got)
	}
	if got := col.Get(1, 0, 1); got != 30 {
		t.Errorf("middle section get = %d, want 30", got)
	}
	if got := col.Get(1, 320, 1); got != 0 {
		t.Errorf("out-of-range y should return air, got %d", got)
	}
}

func TestMotionBlockingHeightmap(t *testing.T) {
	col := NewColumn(0, 0)
	col.Set(0, -64, 0, 1) // bedrock at the very bottom
	col.Set(0, -60, 0, 1) // topmost solid block in this column
	lanes := col.MotionBlocking()
	heights := unpackHeightmapForTest(lanes)
	want := int32(-60-MinY) + 1
	if heights[0] != want {
		t.Errorf("height[0] = %d, want %d", heights[0], want)
	}
	if heights[1] != 0 {
		t.Errorf("height of untouched column should be 0, got %d", heights[1])
	}
}

func unpackHeightmapForTest(lanes [HeightmapLongs]int64) [256]int32 {
	var out [256]int32
	const entriesPerLong = 64 / HeightmapBits
	mask := int64(1)<<HeightmapBits - 1
	for i := range out {
		lane := i / entriesPerLong
		shift := uint(i%entriesPerLong) * HeightmapBits
		out[i] = int32((lanes[lane] >> shift) & mask)
	}
	return out
}

func TestColumnNBTRoundTrip(t *testing.T) {
	col := NewColumn(2, -3)
	col.Set(0, -64, 0, 1)
	col.Set(5, -63, 5, 3)
	col.Set(5, -62, 5, 3)

	tag := col.ToNBT(12345)
	decoded, err := ColumnFromNBT(tag)
	if err != nil {
		t.Fatalf("ColumnFromNBT: %v", err)
	}
	for _, p := range [][3]int{{0, -64, 0}, {5, -63, 5}, {5, -62, 5}, {1, 0, 1}} {
		want := col.Get(p[0], p[1], p[2])
		got := decoded.Get(p[0], p[1], p[2])
		if got != want {
			t.Errorf("round trip at %v: got %d, want %d", p, got, want)
		}
	}
}
