package region

import (
	"fmt"
	"path/filepath"
	"sync"
)

// Storage caches open region Files by region coordinate so the same
// ".mca" file is not reopened per chunk access. It is owned exclusively
// by the tick task — no internal locking would be needed for
// correctness, but a mutex is kept here so a background save task can
// share the cache safely if one is ever added without relitigating this
// type's contract.
type Storage struct {
	dir string
	mu  sync.Mutex
	open map[regionCoord]*File
}

type regionCoord struct{ rx, rz int32 }

// NewStorage returns a Storage rooted at dir (typically "<world>/region").
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir, open: make(map[regionCoord]*File)}
}

// regionOf maps a chunk coordinate to its containing region coordinate
// and in-file slot.
func regionOf(cx, cz int32) (rx, rz int32, lx, lz int) {
	rx = cx >> 5
	rz = cz >> 5
	lx = int(cx & 31)
	lz = int(cz & 31)
	return
}

func (s *Storage) fileFor(rx, rz int32) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := regionCoord{rx, rz}
	if f, ok := s.open[key]; ok {
		return f, nil
	}
	path := filepath.Join(s.dir, fmt.Sprintf("r.%d.%d.mca", rx, rz))
	f, err := Open(path)
	if err != nil {
		return nil, err
	}
	s.open[key] = f
	return f, nil
}

// ReadChunk reads a chunk's raw NBT bytes by absolute chunk coordinate.
func (s *Storage) ReadChunk(cx, cz int32) ([]byte, bool, error) {
	rx, rz, lx, lz := regionOf(cx, cz)
	f, err := s.fileFor(rx, rz)
	if err != nil {
		return nil, false, err
	}
	return f.ReadChunk(lx, lz)
}

// WriteChunk writes a chunk's raw NBT bytes by absolute chunk coordinate.
func (s *Storage) WriteChunk(cx, cz int32, nbtBytes []byte) error {
	rx, rz, lx, lz := regionOf(cx, cz)
	f, err := s.fileFor(rx, rz)
	if err != nil {
		return err
	}
	return f.WriteChunk(lx, lz, nbtBytes)
}

// Close closes every open region file.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, f := range s.open {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
