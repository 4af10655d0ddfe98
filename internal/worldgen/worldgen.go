// Package worldgen produces chunk columns for newly visited coordinates.
// The only implementation shipped is a superflat generator; Generator is
// an interface so a richer terrain generator can be dropped in without
// touching the tick engine.
package worldgen

import (
	"github.com/pickaxe/pickaxe-server/pkg/blocks"
	"github.com/pickaxe/pickaxe-server/pkg/chunk"
)

// Generator produces a fully populated column for a chunk coordinate that
// has never been loaded from the region store before.
type Generator interface {
	Generate(cx, cz int32) *chunk.Column
}

// Layer is one superflat layer: the highest y it fills (inclusive) and
// the block state to fill it with.
type Layer struct {
	TopY  int32
	State blocks.StateID
}

// Superflat fills every column with the same vertical stack of layers
// below a configured surface, and air above it.
type Superflat struct {
	layers []Layer // ascending TopY order
}

// NewSuperflat builds a Superflat generator from the classic
// bedrock/dirt/grass stack, starting at chunk.MinY.
func NewSuperflat() *Superflat {
	bedrock, _ := blocks.DefaultState("minecraft:bedrock")
	dirt, _ := blocks.DefaultState("minecraft:dirt")
	grass, _ := blocks.DefaultState("minecraft:grass_block")
	return &Superflat{layers: []Layer{
		{TopY: chunk.MinY, State: bedrock},
		{TopY: chunk.MinY + 2, State: dirt},
		{TopY: chunk.MinY + 3, State: grass},
	}}
}

// Generate fills one 16x384x16 column according to the configured layer
// stack.
func (s *Superflat) Generate(cx, cz int32) *chunk.Column {
	col := chunk.NewColumn(cx, cz)
	for lx := 0; lx < 16; lx++ {
		for lz := 0; lz < 16; lz++ {
			for _, layer := range s.layers {
				for y := currentFloor(s.layers, layer); y <= layer.TopY; y++ {
					col.Set(lx, int(y), lz, int32(layer.State))
				}
			}
		}
	}
	return col
}

// currentFloor returns the y one above the previous layer's TopY, or
// chunk.MinY for the first layer, so each layer fills exactly its own
// band without re-writing the layer below it.
func currentFloor(layers []Layer, want Layer) int32 {
	floor := int32(chunk.MinY)
	for _, l := range layers {
		if l.TopY == want.TopY && l.State == want.State {
			return floor
		}
		floor = l.TopY + 1
	}
	return floor
}
