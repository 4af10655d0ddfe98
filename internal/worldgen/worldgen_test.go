package worldgen

import (
	"testing"

	"github.com/pickaxe/pickaxe-server/pkg/blocks"
	"github.com/pickaxe/pickaxe-server/pkg/chunk"
)

func TestSuperflatLayerStack(t *testing.T) {
	gen := NewSuperflat()
	col := gen.Generate(0, 0)

	bedrock, _ := blocks.DefaultState("minecraft:bedrock")
	dirt, _ := blocks.DefaultState("minecraft:dirt")
	grass, _ := blocks.DefaultState("minecraft:grass_block")

	if got := col.Get(5, chunk.MinY, 5); got != int32(bedrock) {
		t.Errorf("y=MinY: got %d, want bedrock %d", got, bedrock)
	}
	if got := col.Get(5, chunk.MinY+1, 5); got != int32(dirt) {
		t.Errorf("y=MinY+1: got %d, want dirt %d", got, dirt)
	}
	if got := col.Get(5, chunk.MinY+2, 5); got != int32(dirt) {
		t.Errorf("y=MinY+2: got %d, want dirt %d", got, dirt)
	}
	if got := col.Get(5, chunk.MinY+3, 5); got != int32(grass) {
		t.Errorf("y=MinY+3: got %d, want grass %d", got, grass)
	}
	if got := col.Get(5, chunk.MinY+4, 5); got != 0 {
		t.Errorf("above surface should be air, got %d", got)
	}
}

func TestSuperflatFillsEntireColumnFootprint(t *testing.T) {
	gen := NewSuperflat()
	col := gen.Generate(3, -2)
	for lx := 0; lx < 16; lx++ {
		for lz := 0; lz < 16; lz++ {
			if got := col.Get(lx, chunk.MinY, lz); got == 0 {
				t.Fatalf("column (%d,%d) missing bedrock at (%d,%d)", 3, -2, lx, lz)
			}
		}
	}
}
