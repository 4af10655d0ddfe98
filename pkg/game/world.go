package game

import (
	"bytes"
	"time"

	"github.com/pickaxe/pickaxe-server/internal/worldgen"
	"github.com/pickaxe/pickaxe-server/pkg/chunk"
	"github.com/pickaxe/pickaxe-server/pkg/nbt"
	"github.com/pickaxe/pickaxe-server/pkg/region"
)

// world owns every loaded column, falling back to the region store and
// then to the configured generator when a column has never been loaded
// this run. It is only ever touched by the tick goroutine.
type world struct {
	columns   map[chunkKey]*chunk.Column
	storage   *region.Storage
	generator worldgen.Generator
}

func newWorld(storage *region.Storage, generator worldgen.Generator) *world {
	return &world{
		columns:   make(map[chunkKey]*chunk.Column),
		storage:   storage,
		generator: generator,
	}
}

// columnAt returns the column at (cx, cz), loading it from disk or
// generating it on first access.
func (w *world) columnAt(cx, cz int32) *chunk.Column {
	key := chunkKey{cx, cz}
	if col, ok := w.columns[key]; ok {
		return col
	}
	if raw, ok, err := w.storage.ReadChunk(cx, cz); err == nil && ok {
		if col, err := decodeColumn(raw); err == nil {
			w.columns[key] = col
			return col
		}
	}
	col := w.generator.Generate(cx, cz)
	w.columns[key] = col
	return col
}

func decodeColumn(raw []byte) (*chunk.Column, error) {
	_, tag, err := nbt.ReadNamedRoot(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return chunk.ColumnFromNBT(tag)
}

// save persists a column back to the region store, stamping LastUpdate
// with the time the save happens.
func (w *world) save(cx, cz int32) error {
	col, ok := w.columns[chunkKey{cx, cz}]
	if !ok {
		return nil
	}
	tag := col.ToNBT(time.Now().Unix())
	var buf bytes.Buffer
	if err := nbt.WriteNamedRoot(&buf, "", tag); err != nil {
		return err
	}
	return w.storage.WriteChunk(cx, cz, buf.Bytes())
}

// saveAll persists every currently loaded column.
func (w *world) saveAll() error {
	var firstErr error
	for key := range w.columns {
		if err := w.save(key.x, key.z); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
