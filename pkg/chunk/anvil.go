package chunk

import (
	"fmt"
	"strconv"

	"github.com/pickaxe/pickaxe-server/pkg/blocks"
	"github.com/pickaxe/pickaxe-server/pkg/nbt"
)

// DataVersion is the Anvil format version this server writes, matching
// 1.21.1's save format.
const DataVersion = 3955

// ToNBT renders the column in Anvil layout: DataVersion, xPos/zPos/yPos,
// Status="full", LastUpdate, per-section palettes and packed data, and
// the MOTION_BLOCKING heightmap.
func (c *Column) ToNBT(lastUpdate int64) nbt.Tag {
	sections := make([]nbt.Tag, 0, SectionCount)
	for i, s := range c.Sections {
		sectionY := int8(MinY/16 + i)
		sections = append(sections, sectionToNBT(sectionY, s))
	}
	heightmapLanes := c.MotionBlocking()
	return nbt.Compound(
		nbt.F("DataVersion", nbt.Int(DataVersion)),
		nbt.F("xPos", nbt.Int(c.CX)),
		nbt.F("zPos", nbt.Int(c.CZ)),
		nbt.F("yPos", nbt.Int(int32(MinY/16))),
		nbt.F("Status", nbt.String("full")),
		nbt.F("LastUpdate", nbt.Long(lastUpdate)),
		nbt.F("sections", nbt.List(nbt.KindCompound, sections...)),
		nbt.F("Heightmaps", nbt.Compound(
			nbt.F("MOTION_BLOCKING", nbt.LongArray(heightmapLanes[:])),
		)),
	)
}

func sectionToNBT(y int8, s *Section) nbt.Tag {
	paletteEntries := make([]nbt.Tag, 0, len(s.palette))
	for _, state := range s.palette {
		paletteEntries = append(paletteEntries, paletteEntryToNBT(state))
	}
	blockStates := []nbt.Field{nbt.F("palette", nbt.List(nbt.KindCompound, paletteEntries...))}
	if s.bitsPerEntry != 0 {
		blockStates = append(blockStates, nbt.F("data", nbt.LongArray(append([]int64(nil), s.data...))))
	}
	return nbt.Compound(
		nbt.F("Y", nbt.Byte(y)),
		nbt.F("block_states", nbt.Compound(blockStates...)),
	)
}

// paletteEntryToNBT resolves a state id to its registry name and
// properties. Unknown state ids (outside the baked registry, e.g. a
// placeholder placed by BlockPlace) fall back to a synthetic name rather
// than failing the whole section.
func paletteEntryToNBT(state int32) nbt.Tag {
	info, ok := blocks.StateInfo(blocks.StateID(state))
	if !ok {
		return nbt.Compound(nbt.F("Name", nbt.String("minecraft:unknown_"+strconv.Itoa(int(state)))))
	}
	fields := []nbt.Field{nbt.F("Name", nbt.String(info.Name))}
	if len(info.Values) > 0 {
		propFields := make([]nbt.Field, 0, len(info.Values))
		for k, v := range info.Values {
			propFields = append(propFields, nbt.F(k, nbt.String(v)))
		}
		fields = append(fields, nbt.F("Properties", nbt.Compound(propFields...)))
	}
	return nbt.Compound(fields...)
}

// ColumnFromNBT decodes a column previously produced by ToNBT. A section
// whose palette cannot be resolved against the baked registry is skipped
// (left as air) rather than aborting the whole column.
func ColumnFromNBT(tag nbt.Tag) (*Column, error) {
	xPos, _ := tag.Get("xPos")
	zPos, _ := tag.Get("zPos")
	col := NewColumn(xPos.Int, zPos.Int)

	sectionsTag, ok := tag.Get("sections")
	if !ok {
		return col, nil
	}
	for _, secTag := range sectionsTag.Elems {
		if err := decodeSectionInto(col, secTag); err != nil {
			continue // one bad section never aborts the column
		}
	}
	return col, nil
}

func decodeSectionInto(col *Column, secTag nbt.Tag) error {
	yTag, ok := secTag.Get("Y")
	if !ok {
		return fmt.Errorf("chunk: section missing Y")
	}
	idx := int(yTag.Byte) - MinY/16
	if idx < 0 || idx >= SectionCount {
		return fmt.Errorf("chunk: section Y %d out of range", yTag.Byte)
	}
	blockStates, ok := secTag.Get("block_states")
	if !ok {
		return fmt.Errorf("chunk: section missing block_states")
	}
	section, err := sectionFromNBT(blockStates)
	if err != nil {
		return err
	}
	col.Sections[idx] = section
	return nil
}

func sectionFromNBT(blockStates nbt.Tag) (*Section, error) {
	paletteTag, ok := blockStates.Get("palette")
	if !ok {
		return nil, fmt.Errorf("chunk: block_states missing palette")
	}
	palette := make([]int32, 0, len(paletteTag.Elems))
	for _, entry := range paletteTag.Elems {
		state, err := paletteEntryFromNBT(entry)
		if err != nil {
			return nil, err
		}
		palette = append(palette, int32(state))
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("chunk: empty palette")
	}
	if len(palette) == 1 {
		return Single(palette[0]), nil
	}
	dataTag, ok := blockStates.Get("data")
	if !ok {
		return nil, fmt.Errorf("chunk: indirect palette missing data")
	}
	s := &Section{palette: palette, data: append([]int64(nil), dataTag.LongArray...)}
	bpe := bitsNeeded(len(palette))
	if bpe < 4 {
		bpe = 4
	}
	s.bitsPerEntry = bpe
	s.materialize()
	s.rebuild()
	return s, nil
}

func paletteEntryFromNBT(entry nbt.Tag) (blocks.StateID, error) {
	nameTag, ok := entry.Get("Name")
	if !ok {
		return 0, fmt.Errorf("chunk: palette entry missing Name")
	}
	values := map[string]string{}
	if propsTag, ok := entry.Get("Properties"); ok {
		for _, f := range propsTag.Fields {
			values[f.Name] = f.Tag.Str
		}
	}
	state, ok := blocks.StateForProperties(nameTag.Str, values)
	if !ok {
		if state, ok := blocks.DefaultState(nameTag.Str); ok {
			return state, nil
		}
		return 0, fmt.Errorf("chunk: unknown block name %q", nameTag.Str)
	}
	return state, nil
}
