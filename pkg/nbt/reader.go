package nbt

import (
	"encoding/binary"
	"io"
)

// ReadNamedRoot reads the file/region framing and returns the root name
// and compound.
func ReadNamedRoot(r io.Reader) (string, Tag, error) {
	kind, err := readByte(r)
	if err != nil {
		return "", Tag{}, err
	}
	if kind != KindCompound {
		return "", Tag{}, ErrRootNotCompound
	}
	name, err := readString(r)
	if err != nil {
		return "", Tag{}, err
	}
	tag, err := readPayload(r, kind)
	return name, tag, err
}

// ReadNetworkRoot reads the protocol framing (no root name) and returns
// the root compound.
func ReadNetworkRoot(r io.Reader) (Tag, error) {
	kind, err := readByte(r)
	if err != nil {
		return Tag{}, err
	}
	if kind != KindCompound {
		return Tag{}, ErrRootNotCompound
	}
	return readPayload(r, kind)
}

func readByte(r io.Reader) (byte, error) {
	var b [1]byte
	_, err := io.ReadFull(r, b[:])
	return b[0], err
}

func readString(r io.Reader) (string, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return "", err
	}
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readPayload(r io.Reader, kind byte) (Tag, error) {
	switch kind {
	case KindEnd:
		return Tag{Kind: KindEnd}, nil
	case KindByte:
		var v int8
		err := binary.Read(r, binary.BigEndian, &v)
		return Tag{Kind: kind, Byte: v}, err
	case KindShort:
		var v int16
		err := binary.Read(r, binary.BigEndian, &v)
		return Tag{Kind: kind, Short: v}, err
	case KindInt:
		var v int32
		err := binary.Read(r, binary.BigEndian, &v)
		return Tag{Kind: kind, Int: v}, err
	case KindLong:
		var v int64
		err := binary.Read(r, binary.BigEndian, &v)
		return Tag{Kind: kind, Long: v}, err
	case KindFloat:
		var v float32
		err := binary.Read(r, binary.BigEndian, &v)
		return Tag{Kind: kind, Float: v}, err
	case KindDouble:
		var v float64
		err := binary.Read(r, binary.BigEndian, &v)
		return Tag{Kind: kind, Double: v}, err
	case KindByteArray:
		n, err := readArrayLen(r)
		if err != nil {
			return Tag{}, err
		}
		arr := make([]int8, n)
		if err := binary.Read(r, binary.BigEndian, arr); err != nil {
			return Tag{}, err
		}
		return Tag{Kind: kind, ByteArray: arr}, nil
	case KindString:
		s, err := readString(r)
		return Tag{Kind: kind, Str: s}, err
	case KindList:
		elemKind, err := readByte(r)
		if err != nil {
			return Tag{}, err
		}
		n, err := readArrayLen(r)
		if err != nil {
			return Tag{}, err
		}
		elems := make([]Tag, 0, n)
		for i := int32(0); i < n; i++ {
			e, err := readPayload(r, elemKind)
			if err != nil {
				return Tag{}, err
			}
			elems = append(elems, e)
		}
		return Tag{Kind: kind, ListKind: elemKind, Elems: elems}, nil
	case KindCompound:
		var fields []Field
		for {
			fKind, err := readByte(r)
			if err != nil {
				return Tag{}, err
			}
			if fKind == KindEnd {
				break
			}
			name, err := readString(r)
			if err != nil {
				return Tag{}, err
			}
			val, err := readPayload(r, fKind)
			if err != nil {
				return Tag{}, err
			}
			fields = append(fields, Field{Name: name, Tag: val})
		}
		return Tag{Kind: kind, Fields: fields}, nil
	case KindIntArray:
		n, err := readArrayLen(r)
		if err != nil {
			return Tag{}, err
		}
		arr := make([]int32, n)
		if err := binary.Read(r, binary.BigEndian, arr); err != nil {
			return Tag{}, err
		}
		return Tag{Kind: kind, IntArray: arr}, nil
	case KindLongArray:
		n, err := readArrayLen(r)
		if err != nil {
			return Tag{}, err
		}
		arr := make([]int64, n)
		if err := binary.Read(r, binary.BigEndian, arr); err != nil {
			return Tag{}, err
		}
		return Tag{Kind: kind, LongArray: arr}, nil
	default:
		return Tag{}, ErrUnknownTagKind
	}
}

func readArrayLen(r io.Reader) (int32, error) {
	var n int32
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrNegativeLength
	}
	return n, nil
}
