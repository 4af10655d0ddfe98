package varint

import "io"

// BlockPos is a world-space block coordinate. X and Z are 26-bit signed
// fields, Y a 12-bit signed field, packed into a single int64 on the wire.
type BlockPos struct {
	X, Y, Z int32
}

// Pack encodes p into the wire's 64-bit form: x in the top 26 bits, z in
// the middle 26, y in the bottom 12.
func (p BlockPos) Pack() int64 {
	x := int64(p.X) & 0x3FFFFFF
	z := int64(p.Z) & 0x3FFFFFF
	y := int64(p.Y) & 0xFFF
	return (x << 38) | (z << 12) | y
}

// UnpackBlockPos decodes the wire form, sign-extending each field.
func UnpackBlockPos(v int64) BlockPos {
	x := int32(v >> 38)
	y := int32((v << 52) >> 52)
	z := int32((v << 26) >> 38)
	return BlockPos{X: x, Y: y, Z: z}
}

func ReadPosition(r io.Reader) (BlockPos, error) {
	v, err := ReadInt64(r)
	if err != nil {
		return BlockPos{}, err
	}
	return UnpackBlockPos(v), nil
}

func WritePosition(w io.Writer, p BlockPos) error {
	return WriteInt64(w, p.Pack())
}
