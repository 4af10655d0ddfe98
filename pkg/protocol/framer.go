package protocol

import (
	"bytes"
	"compress/zlib"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"

	"github.com/pickaxe/pickaxe-server/pkg/protocol/cfb8"
	"github.com/pickaxe/pickaxe-server/pkg/varint"
)

// ErrFrameTooLarge is returned by ReadFrame when a declared frame length
// exceeds MaxFrameLength.
var ErrFrameTooLarge = errors.New("protocol: frame length exceeds maximum")

// MaxFrameLength bounds a single frame's declared length, matching the
// largest length a 3-byte VarInt can encode.
const MaxFrameLength = 2097151

// Framer reads and writes length-prefixed frames, transparently applying
// zlib compression once a threshold is set and AES-128/CFB8 encryption
// once a secret is set. Compression and encryption are independent: either
// may be enabled, in any order, matching the login sequence (encryption
// first, compression once Login succeeds).
type Framer struct {
	r io.Reader
	w io.Writer

	threshold int32 // < 0 disables compression
}

// NewFramer wraps the given reader and writer with no compression or
// encryption; both are enabled later as the connection progresses through
// its handshake.
func NewFramer(r io.Reader, w io.Writer) *Framer {
	return &Framer{r: r, w: w, threshold: -1}
}

// EnableEncryption wraps the Framer's reader and writer in AES-128/CFB8
// streams keyed by the shared secret, using the secret itself as the IV
// per the Java Edition handshake.
func (f *Framer) EnableEncryption(secret [16]byte) error {
	encBlock, err := aes.NewCipher(secret[:])
	if err != nil {
		return fmt.Errorf("protocol: init encryption cipher: %w", err)
	}
	decBlock, err := aes.NewCipher(secret[:])
	if err != nil {
		return fmt.Errorf("protocol: init decryption cipher: %w", err)
	}
	f.r = cipher.StreamReader{S: cfb8.NewDecryptStream(decBlock, secret[:]), R: f.r}
	f.w = cipher.StreamWriter{S: cfb8.NewEncryptStream(encBlock, secret[:]), W: f.w}
	return nil
}

// EnableCompression sets the compression threshold: frames whose
// uncompressed body is at least this many bytes are zlib-compressed.
// A negative threshold disables compression.
func (f *Framer) EnableCompression(threshold int32) {
	f.threshold = threshold
}

// ReadFrame reads one complete frame and returns the decompressed packet
// body (leading packet-id VarInt followed by its fields).
func (f *Framer) ReadFrame() ([]byte, error) {
	frameLen, _, err := varint.ReadVarInt(f.r)
	if err != nil {
		return nil, fmt.Errorf("protocol: read frame length: %w", err)
	}
	if frameLen < 0 || frameLen > MaxFrameLength {
		return nil, ErrFrameTooLarge
	}
	body := make([]byte, frameLen)
	if _, err := io.ReadFull(f.r, body); err != nil {
		return nil, fmt.Errorf("protocol: read frame body: %w", err)
	}
	if f.threshold < 0 {
		return body, nil
	}
	return f.decompress(body)
}

func (f *Framer) decompress(body []byte) ([]byte, error) {
	br := bytes.NewReader(body)
	dataLen, _, err := varint.ReadVarInt(br)
	if err != nil {
		return nil, fmt.Errorf("protocol: read data length: %w", err)
	}
	rest := body[len(body)-br.Len():]
	if dataLen == 0 {
		return rest, nil
	}
	zr, err := zlib.NewReader(bytes.NewReader(rest))
	if err != nil {
		return nil, fmt.Errorf("protocol: inflate frame: %w", err)
	}
	defer zr.Close()
	out := make([]byte, dataLen)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("protocol: inflate frame: %w", err)
	}
	return out, nil
}

// WriteFrame writes a packet body (packet id plus fields) as a single
// frame, applying compression when enabled.
func (f *Framer) WriteFrame(body []byte) error {
	if f.threshold < 0 {
		return f.writeRaw(body)
	}
	return f.writeCompressed(body)
}

func (f *Framer) writeRaw(body []byte) error {
	var out bytes.Buffer
	varint.WriteVarInt(&out, int32(len(body)))
	out.Write(body)
	_, err := f.w.Write(out.Bytes())
	return err
}

func (f *Framer) writeCompressed(body []byte) error {
	var inner bytes.Buffer
	if int32(len(body)) < f.threshold {
		varint.WriteVarInt(&inner, 0)
		inner.Write(body)
	} else {
		varint.WriteVarInt(&inner, int32(len(body)))
		zw := zlib.NewWriter(&inner)
		if _, err := zw.Write(body); err != nil {
			zw.Close()
			return fmt.Errorf("protocol: deflate frame: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("protocol: deflate frame: %w", err)
		}
	}
	var out bytes.Buffer
	varint.WriteVarInt(&out, int32(inner.Len()))
	out.Write(inner.Bytes())
	_, err := f.w.Write(out.Bytes())
	return err
}
