// Package region implements the Minecraft ".mca" region file container:
// a 1024-slot location table, a timestamp table, and 4 KiB sector
// allocation for per-chunk zlib-compressed NBT payloads.
package region

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	sectorSize    = 4096
	slotCount     = 1024
	headerSectors = 2 // sector 0: locations, sector 1: timestamps
)

// ErrUnsupportedCompression is returned by ReadChunk when the stored
// compression tag is not the zlib/deflate tag this package writes.
var ErrUnsupportedCompression = errors.New("region: unsupported compression tag")

// File wraps one open ".mca" file: the 32x32 location/timestamp tables, a
// sector-occupied bitmap, and the underlying os.File.
type File struct {
	f         *os.File
	locations [slotCount]uint32 // high 24 bits: sector index, low 8 bits: sector count
	stamps    [slotCount]int32
	occupied  []bool // sector index -> in use
}

// Open opens or creates the region file at path, initializing a fresh
// two-sector header if the file did not previously exist.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}
	rf := &File{f: f, occupied: make([]bool, headerSectors, 64)}
	rf.occupied[0] = true
	rf.occupied[1] = true

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.Size() == 0 {
		if err := rf.writeEmptyHeader(); err != nil {
			f.Close()
			return nil, err
		}
		return rf, nil
	}
	if err := rf.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return rf, nil
}

func (rf *File) writeEmptyHeader() error {
	var zero [sectorSize * headerSectors]byte
	if _, err := rf.f.WriteAt(zero[:], 0); err != nil {
		return err
	}
	return rf.f.Sync()
}

func (rf *File) readHeader() error {
	var buf [sectorSize * headerSectors]byte
	if _, err := io.ReadFull(io.NewSectionReader(rf.f, 0, int64(len(buf))), buf[:]); err != nil {
		return fmt.Errorf("region: read header: %w", err)
	}
	for i := 0; i < slotCount; i++ {
		rf.locations[i] = binary.BigEndian.Uint32(buf[i*4:])
		rf.stamps[i] = int32(binary.BigEndian.Uint32(buf[sectorSize+i*4:]))
	}

	info, err := rf.f.Stat()
	if err != nil {
		return err
	}
	totalSectors := int(info.Size() / sectorSize)
	if totalSectors < len(rf.occupied) {
		totalSectors = len(rf.occupied)
	}
	for len(rf.occupied) < totalSectors {
		rf.occupied = append(rf.occupied, false)
	}
	for _, loc := range rf.locations {
		sectorIdx, count := decodeLocation(loc)
		if loc == 0 {
			continue
		}
		for s := sectorIdx; s < sectorIdx+uint32(count); s++ {
			rf.ensureSector(int(s))
			rf.occupied[s] = true
		}
	}
	return nil
}

func decodeLocation(loc uint32) (sectorIndex uint32, sectorCount uint8) {
	return loc >> 8, uint8(loc)
}

func encodeLocation(sectorIndex uint32, sectorCount uint8) uint32 {
	return (sectorIndex << 8) | uint32(sectorCount)
}

func (rf *File) ensureSector(idx int) {
	for len(rf.occupied) <= idx {
		rf.occupied = append(rf.occupied, false)
	}
}

func slotFor(lx, lz int) int { return lx + lz*32 }

// ReadChunk returns the raw (decompressed) NBT payload for local chunk
// coordinates (lx, lz in [0,32)), or (nil, false) if no chunk is stored
// there.
func (rf *File) ReadChunk(lx, lz int) ([]byte, bool, error) {
	loc := rf.locations[slotFor(lx, lz)]
	if loc == 0 {
		return nil, false, nil
	}
	sectorIdx, count := decodeLocation(loc)
	header := make([]byte, 5)
	if _, err := rf.f.ReadAt(header, int64(sectorIdx)*sectorSize); err != nil {
		return nil, false, fmt.Errorf("region: read chunk header: %w", err)
	}
	length := binary.BigEndian.Uint32(header[:4])
	tag := header[4]
	if tag != 2 {
		return nil, false, ErrUnsupportedCompression
	}
	compressed := make([]byte, length-1)
	if _, err := rf.f.ReadAt(compressed, int64(sectorIdx)*sectorSize+5); err != nil {
		return nil, false, fmt.Errorf("region: read chunk payload: %w", err)
	}
	_ = count
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, false, fmt.Errorf("region: inflate chunk: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, false, fmt.Errorf("region: inflate chunk: %w", err)
	}
	return raw, true, nil
}

// WriteChunk compresses nbtBytes and stores it at local chunk coordinates
// (lx, lz), allocating sectors by first-fit starting after the header,
// freeing any sectors the chunk previously occupied.
func (rf *File) WriteChunk(lx, lz int, nbtBytes []byte) error {
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(nbtBytes); err != nil {
		zw.Close()
		return fmt.Errorf("region: deflate chunk: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("region: deflate chunk: %w", err)
	}

	payloadLen := 1 + compressed.Len() // compression tag + compressed bytes
	sectorsNeeded := (5 + compressed.Len() + sectorSize - 1) / sectorSize
	if sectorsNeeded > 255 {
		return fmt.Errorf("region: chunk too large for sector table (%d sectors)", sectorsNeeded)
	}

	slot := slotFor(lx, lz)
	rf.freeSlot(slot)

	startSector := rf.allocate(sectorsNeeded)

	buf := make([]byte, sectorsNeeded*sectorSize)
	binary.BigEndian.PutUint32(buf[0:4], uint32(payloadLen))
	buf[4] = 2
	copy(buf[5:], compressed.Bytes())

	if _, err := rf.f.WriteAt(buf, int64(startSector)*sectorSize); err != nil {
		return fmt.Errorf("region: write chunk: %w", err)
	}

	rf.locations[slot] = encodeLocation(uint32(startSector), uint8(sectorsNeeded))
	rf.stamps[slot] = int32(time.Now().Unix())

	if err := rf.flushHeader(); err != nil {
		return err
	}
	return rf.f.Sync()
}

// freeSlot marks a chunk's previously-held sectors (if any) as free.
func (rf *File) freeSlot(slot int) {
	loc := rf.locations[slot]
	if loc == 0 {
		return
	}
	sectorIdx, count := decodeLocation(loc)
	for s := sectorIdx; s < sectorIdx+uint32(count); s++ {
		if int(s) < len(rf.occupied) {
			rf.occupied[s] = false
		}
	}
	rf.locations[slot] = 0
}

// allocate finds the first run of `need` consecutive free sectors at or
// after sector 2, growing the occupied bitmap (and file) if no run
// exists yet.
func (rf *File) allocate(need int) int {
	run := 0
	start := -1
	for i := headerSectors; i < len(rf.occupied); i++ {
		if !rf.occupied[i] {
			if run == 0 {
				start = i
			}
			run++
			if run == need {
				for s := start; s < start+need; s++ {
					rf.occupied[s] = true
				}
				return start
			}
		} else {
			run = 0
		}
	}
	// Append at the end of the file.
	start = len(rf.occupied)
	for i := 0; i < need; i++ {
		rf.occupied = append(rf.occupied, true)
	}
	return start
}

func (rf *File) flushHeader() error {
	var buf [sectorSize * headerSectors]byte
	for i := 0; i < slotCount; i++ {
		binary.BigEndian.PutUint32(buf[i*4:], rf.locations[i])
		binary.BigEndian.PutUint32(buf[sectorSize+i*4:], uint32(rf.stamps[i]))
	}
	_, err := rf.f.WriteAt(buf[:], 0)
	return err
}

// Close releases the underlying file handle.
func (rf *File) Close() error { return rf.f.Close() }
