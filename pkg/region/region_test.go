package region

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestWriteReadChunkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	rf, err := Open(filepath.Join(dir, "r.0.0.mca"))
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	payload := bytes.Repeat([]byte("hello pickaxe "), 50)
	if err := rf.WriteChunk(3, 5, payload); err != nil {
		t.Fatalf("WriteChunk: %v", err)
	}
	got, ok, err := rf.ReadChunk(3, 5)
	if err != nil {
		t.Fatalf("ReadChunk: %v", err)
	}
	if !ok {
		t.Fatal("expected chunk present")
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip payload mismatch: got %d bytes, want %d", len(got), len(payload))
	}
}

func TestReadAbsentChunk(t *testing.T) {
	dir := t.TempDir()
	rf, err := Open(filepath.Join(dir, "r.0.0.mca"))
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	_, ok, err := rf.ReadChunk(10, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected absent chunk to report not-found")
	}
}

func TestOverwriteLastWriteWins(t *testing.T) {
	dir := t.TempDir()
	rf, err := Open(filepath.Join(dir, "r.0.0.mca"))
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	if err := rf.WriteChunk(1, 1, []byte("first version")); err != nil {
		t.Fatal(err)
	}
	if err := rf.WriteChunk(1, 1, []byte("second version, quite a bit longer than the first")); err != nil {
		t.Fatal(err)
	}
	got, ok, err := rf.ReadChunk(1, 1)
	if err != nil || !ok {
		t.Fatalf("ReadChunk: ok=%v err=%v", ok, err)
	}
	if string(got) != "second version, quite a bit longer than the first" {
		t.Errorf("last write did not win: got %q", got)
	}
}

func TestNoOverlappingSectors(t *testing.T) {
	dir := t.TempDir()
	rf, err := Open(filepath.Join(dir, "r.0.0.mca"))
	if err != nil {
		t.Fatal(err)
	}
	defer rf.Close()

	for i := 0; i < 40; i++ {
		payload := bytes.Repeat([]byte{byte(i)}, 1000+i*37)
		if err := rf.WriteChunk(i%32, i/32, payload); err != nil {
			t.Fatalf("WriteChunk %d: %v", i, err)
		}
	}

	occupiedBy := map[int]int{}
	for slot, loc := range rf.locations {
		if loc == 0 {
			continue
		}
		sectorIdx, count := decodeLocation(loc)
		for s := sectorIdx; s < sectorIdx+uint32(count); s++ {
			if owner, used := occupiedBy[int(s)]; used {
				t.Fatalf("sector %d used by both slot %d and slot %d", s, owner, slot)
			}
			occupiedBy[int(s)] = slot
		}
	}

	for i := 0; i < 40; i++ {
		payload := bytes.Repeat([]byte{byte(i)}, 1000+i*37)
		got, ok, err := rf.ReadChunk(i%32, i/32)
		if err != nil || !ok {
			t.Fatalf("ReadChunk %d: ok=%v err=%v", i, ok, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("chunk %d payload mismatch after interleaved writes", i)
		}
	}
}

func TestStorageRegionFileMapping(t *testing.T) {
	dir := t.TempDir()
	s := NewStorage(dir)
	defer s.Close()

	if err := s.WriteChunk(40, -10, []byte("cross-region chunk")); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.ReadChunk(40, -10)
	if err != nil || !ok {
		t.Fatalf("ReadChunk: ok=%v err=%v", ok, err)
	}
	if string(got) != "cross-region chunk" {
		t.Errorf("got %q", got)
	}

	rx, rz, lx, lz := regionOf(40, -10)
	if rx != 1 || lx != 8 {
		t.Errorf("regionOf cx=40: rx=%d lx=%d, want rx=1 lx=8", rx, lx)
	}
	if rz != -1 || lz != 22 {
		t.Errorf("regionOf cz=-10: rz=%d lz=%d, want rz=-1 lz=22", rz, lz)
	}
}
