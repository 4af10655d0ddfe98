package chunk

import "io"

// MinY and MaxY bound the playable world height: y in [MinY, MaxY).
const (
	MinY         = -64
	MaxY         = 320
	SectionCount = (MaxY - MinY) / 16 // 24
)

// Column is a chunk column: 24 stacked sections covering y in [-64, 320).
type Column struct {
	CX, CZ   int32
	Sections [SectionCount]*Section
}

// NewColumn returns a column of 24 empty (air) sections.
func NewColumn(cx, cz int32) *Column {
	c := &Column{CX: cx, CZ: cz}
	for i := range c.Sections {
		c.Sections[i] = Empty()
	}
	return c
}

// sectionIndex maps a world y to its owning section index.
func sectionIndex(y int) int { return (y - MinY) >> 4 }

// Get returns the block state at (local x, world y, local z). Out-of-range
// y returns air.
func (c *Column) Get(lx, wy, lz int) int32 {
	if wy < MinY || wy >= MaxY {
		return 0
	}
	si := sectionIndex(wy)
	return c.Sections[si].Get(lx, wy&0x0F, lz)
}

// Set writes the block state at (local x, world y, local z) and returns
// the previous value. Out-of-range y is a no-op returning air.
func (c *Column) Set(lx, wy, lz int, state int32) int32 {
	if wy < MinY || wy >= MaxY {
		return 0
	}
	si := sectionIndex(wy)
	return c.Sections[si].Set(lx, wy&0x0F, lz, state)
}

// Serialize concatenates all 24 sections' wire forms in order.
func (c *Column) Serialize(w io.Writer) error {
	for _, s := range c.Sections {
		if err := s.Serialize(w); err != nil {
			return err
		}
	}
	return nil
}
