package varint

import (
	"bytes"
	"testing"
)

func TestSlotEmptyRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSlot(&buf, Slot{Count: 0}); err != nil {
		t.Fatal(err)
	}
	s, err := ReadSlot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Empty() {
		t.Errorf("expected empty slot, got %+v", s)
	}
}

func TestSlotWithItemRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSlot(&buf, Slot{Count: 5, ItemID: 42}); err != nil {
		t.Fatal(err)
	}
	s, err := ReadSlot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count != 5 || s.ItemID != 42 || s.Raw != nil {
		t.Errorf("got %+v, want Count=5 ItemID=42 Raw=nil", s)
	}
}

func TestSlotWithComponentsConsumesRemainder(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, 1)  // count
	WriteVarInt(&buf, 7)  // item id
	WriteVarInt(&buf, 1)  // added component count
	WriteVarInt(&buf, 0)  // removed component count
	buf.Write([]byte{0xDE, 0xAD, 0xBE, 0xEF})

	s, err := ReadSlot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count != 1 || s.ItemID != 7 {
		t.Fatalf("got %+v", s)
	}
	if !bytes.Equal(s.Raw, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("Raw = %v, want component bytes consumed to EOF", s.Raw)
	}
	if buf.Len() != 0 {
		t.Errorf("expected buffer fully drained, %d bytes left", buf.Len())
	}
}
