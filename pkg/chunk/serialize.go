package chunk

import (
	"io"

	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// Serialize writes the wire form of a section's paletted container
// followed by a single-valued (plains) biome container: i16 block_count,
// u8 bits_per_entry, palette, packed data, then the biome container.
func (s *Section) Serialize(w io.Writer) error {
	if err := varint.WriteInt16(w, s.blockCount); err != nil {
		return err
	}
	if err := varint.WriteByte(w, byte(s.bitsPerEntry)); err != nil {
		return err
	}
	if s.bitsPerEntry == 0 {
		if _, err := varint.WriteVarInt(w, s.palette[0]); err != nil {
			return err
		}
		if _, err := varint.WriteVarInt(w, 0); err != nil { // data length
			return err
		}
	} else {
		if _, err := varint.WriteVarInt(w, int32(len(s.palette))); err != nil {
			return err
		}
		for _, p := range s.palette {
			if _, err := varint.WriteVarInt(w, p); err != nil {
				return err
			}
		}
		if _, err := varint.WriteVarInt(w, int32(len(s.data))); err != nil {
			return err
		}
		for _, lane := range s.data {
			if err := varint.WriteInt64(w, lane); err != nil {
				return err
			}
		}
	}
	return writeSingleValuedBiomes(w)
}

// writeSingleValuedBiomes appends the biome paletted container this
// server always emits: a single biome id (0, the default) with no
// packed data, since lighting/biome variation is out of scope.
func writeSingleValuedBiomes(w io.Writer) error {
	if err := varint.WriteByte(w, 0); err != nil { // bits-per-entry
		return err
	}
	if _, err := varint.WriteVarInt(w, 0); err != nil { // palette[0] biome id
		return err
	}
	_, err := varint.WriteVarInt(w, 0) // data length
	return err
}
