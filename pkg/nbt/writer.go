package nbt

import (
	"encoding/binary"
	"io"
)

// WriteNamedRoot writes the file/region framing: tag kind, string name,
// payload. root must be a Compound.
func WriteNamedRoot(w io.Writer, name string, root Tag) error {
	if root.Kind != KindCompound {
		return ErrRootNotCompound
	}
	if err := writeByte(w, root.Kind); err != nil {
		return err
	}
	if err := writeString(w, name); err != nil {
		return err
	}
	return writePayload(w, root)
}

// WriteNetworkRoot writes the protocol framing: tag kind (no name),
// payload. root must be a Compound.
func WriteNetworkRoot(w io.Writer, root Tag) error {
	if root.Kind != KindCompound {
		return ErrRootNotCompound
	}
	if err := writeByte(w, root.Kind); err != nil {
		return err
	}
	return writePayload(w, root)
}

func writeByte(w io.Writer, b byte) error {
	_, err := w.Write([]byte{b})
	return err
}

func writeString(w io.Writer, s string) error {
	b := []byte(s)
	if err := binary.Write(w, binary.BigEndian, uint16(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func writePayload(w io.Writer, t Tag) error {
	switch t.Kind {
	case KindEnd:
		return nil
	case KindByte:
		return binary.Write(w, binary.BigEndian, t.Byte)
	case KindShort:
		return binary.Write(w, binary.BigEndian, t.Short)
	case KindInt:
		return binary.Write(w, binary.BigEndian, t.Int)
	case KindLong:
		return binary.Write(w, binary.BigEndian, t.Long)
	case KindFloat:
		return binary.Write(w, binary.BigEndian, t.Float)
	case KindDouble:
		return binary.Write(w, binary.BigEndian, t.Double)
	case KindByteArray:
		if err := binary.Write(w, binary.BigEndian, int32(len(t.ByteArray))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, t.ByteArray)
	case KindString:
		return writeString(w, t.Str)
	case KindList:
		kind := t.ListKind
		if len(t.Elems) == 0 {
			kind = KindEnd
		}
		if err := writeByte(w, kind); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, int32(len(t.Elems))); err != nil {
			return err
		}
		for _, e := range t.Elems {
			if err := writePayload(w, e); err != nil {
				return err
			}
		}
		return nil
	case KindCompound:
		for _, f := range t.Fields {
			if err := writeByte(w, f.Tag.Kind); err != nil {
				return err
			}
			if err := writeString(w, f.Name); err != nil {
				return err
			}
			if err := writePayload(w, f.Tag); err != nil {
				return err
			}
		}
		return writeByte(w, KindEnd)
	case KindIntArray:
		if err := binary.Write(w, binary.BigEndian, int32(len(t.IntArray))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, t.IntArray)
	case KindLongArray:
		if err := binary.Write(w, binary.BigEndian, int32(len(t.LongArray))); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, t.LongArray)
	default:
		return ErrUnknownTagKind
	}
}
