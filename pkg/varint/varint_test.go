package varint

import (
	"bytes"
	"errors"
	"testing"
)

func TestVarInt(t *testing.T) {
	tests := []struct {
		value    int32
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{255, []byte{0xFF, 0x01}},
		{25565, []byte{0xDD, 0xC7, 0x01}},
		{2097151, []byte{0xFF, 0xFF, 0x7F}},
		{2147483647, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
		{-1, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}},
		{-2147483648, []byte{0x80, 0x80, 0x80, 0x80, 0x08}},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if _, err := WriteVarInt(&buf, tt.value); err != nil {
			t.Fatalf("WriteVarInt(%d) error: %v", tt.value, err)
		}
		if !bytes.Equal(buf.Bytes(), tt.expected) {
			t.Errorf("WriteVarInt(%d) = %v, want %v", tt.value, buf.Bytes(), tt.expected)
		}

		val, n, err := ReadVarInt(bytes.NewReader(tt.expected))
		if err != nil {
			t.Fatalf("ReadVarInt(%v) error: %v", tt.expected, err)
		}
		if val != tt.value {
			t.Errorf("ReadVarInt(%v) = %d, want %d", tt.expected, val, tt.value)
		}
		if n != len(tt.expected) {
			t.Errorf("ReadVarInt bytes read = %d, want %d", n, len(tt.expected))
		}
	}
}

func TestReadVarIntOverlong(t *testing.T) {
	// 0x80 0x80 0x80 0x80 0x00 is an overlong zero: accepted on read.
	v, _, err := ReadVarInt(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x00}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Errorf("overlong VarInt decoded to %d, want 0", v)
	}
}

func TestReadVarIntTooLong(t *testing.T) {
	_, _, err := ReadVarInt(bytes.NewReader([]byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x01}))
	if !errors.Is(err, ErrVarIntTooLong) {
		t.Fatalf("got err %v, want ErrVarIntTooLong", err)
	}
}

func TestReadVarIntShort(t *testing.T) {
	_, _, err := ReadVarInt(bytes.NewReader([]byte{0x80, 0x80}))
	if !errors.Is(err, ErrShortRead) {
		t.Fatalf("got err %v, want ErrShortRead", err)
	}
}

func TestVarIntSize(t *testing.T) {
	tests := []struct {
		value int32
		size  int
	}{
		{0, 1}, {1, 1}, {127, 1}, {128, 2},
		{25565, 3}, {2097151, 3}, {2147483647, 5}, {-1, 5},
	}
	for _, tt := range tests {
		if got := VarIntSize(tt.value); got != tt.size {
			t.Errorf("VarIntSize(%d) = %d, want %d", tt.value, got, tt.size)
		}
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 127, 128, 1 << 40, -(1 << 40), 9223372036854775807, -9223372036854775808}
	for _, v := range values {
		var buf bytes.Buffer
		if _, err := WriteVarLong(&buf, v); err != nil {
			t.Fatalf("WriteVarLong(%d): %v", v, err)
		}
		got, _, err := ReadVarLong(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("ReadVarLong(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("VarLong round trip %d -> %d", v, got)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"", "Steve", "A Pickaxe Server", "日本語テスト"}
	for _, s := range cases {
		var buf bytes.Buffer
		if err := WriteString(&buf, s); err != nil {
			t.Fatalf("WriteString(%q): %v", s, err)
		}
		got, err := ReadString(&buf)
		if err != nil {
			t.Fatalf("ReadString(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("string round trip %q -> %q", s, got)
		}
	}
}

func TestReadStringTooLong(t *testing.T) {
	var buf bytes.Buffer
	WriteVarInt(&buf, int32(MaxStringChars*4+1))
	_, err := ReadString(&buf)
	if !errors.Is(err, ErrStringTooLong) {
		t.Fatalf("got %v, want ErrStringTooLong", err)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	u := [16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	var buf bytes.Buffer
	if err := WriteUUID(&buf, u); err != nil {
		t.Fatal(err)
	}
	got, err := ReadUUID(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got != u {
		t.Errorf("UUID round trip %v -> %v", u, got)
	}
}

func TestPrimitivesRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	WriteInt16(&buf, -12345)
	WriteInt32(&buf, -123456789)
	WriteInt64(&buf, -1234567890123)
	WriteFloat32(&buf, 3.5)
	WriteFloat64(&buf, -2.25)
	WriteBool(&buf, true)
	WriteByte(&buf, 0xAB)

	i16, _ := ReadInt16(&buf)
	i32, _ := ReadInt32(&buf)
	i64, _ := ReadInt64(&buf)
	f32, _ := ReadFloat32(&buf)
	f64, _ := ReadFloat64(&buf)
	b, _ := ReadBool(&buf)
	by, _ := ReadByte(&buf)

	if i16 != -12345 || i32 != -123456789 || i64 != -1234567890123 {
		t.Errorf("integer round trip mismatch: %d %d %d", i16, i32, i64)
	}
	if f32 != 3.5 || f64 != -2.25 {
		t.Errorf("float round trip mismatch: %v %v", f32, f64)
	}
	if !b || by != 0xAB {
		t.Errorf("bool/byte round trip mismatch: %v %v", b, by)
	}
}
