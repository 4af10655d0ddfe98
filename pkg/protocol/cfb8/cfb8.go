// Package cfb8 implements AES-128 in CFB-8 feedback mode, the stream
// cipher Minecraft Java Edition uses to encrypt the play connection.
// Go's standard library only ships whole-block CFB (cipher.NewCFBEncrypter
// operates on the block size), so the 8-bit feedback variant is
// hand-rolled here directly against cipher.Block.
package cfb8

import "crypto/cipher"

type cfb8Stream struct {
	block     cipher.Block
	shift     []byte // block-size shift register, seeded with the IV
	tmp       []byte // scratch for block.Encrypt output
	decrypt   bool
}

func newStream(block cipher.Block, iv []byte, decrypt bool) *cfb8Stream {
	bs := block.BlockSize()
	shift := make([]byte, bs)
	copy(shift, iv)
	return &cfb8Stream{block: block, shift: shift, tmp: make([]byte, bs), decrypt: decrypt}
}

// XORKeyStream encrypts or decrypts src into dst one byte at a time: each
// byte is produced by AES-encrypting the current shift register and XORing
// its first byte with the input, then the shift register slides left by
// one byte with the wire byte (ciphertext, regardless of direction)
// appended.
func (s *cfb8Stream) XORKeyStream(dst, src []byte) {
	bs := len(s.shift)
	for i := range src {
		s.block.Encrypt(s.tmp, s.shift)
		in := src[i]
		out := s.tmp[0] ^ in
		var wireByte byte
		if s.decrypt {
			wireByte = in
		} else {
			wireByte = out
		}
		copy(s.shift, s.shift[1:])
		s.shift[bs-1] = wireByte
		dst[i] = out
	}
}

// NewEncryptStream returns a stream that CFB-8 encrypts plaintext into
// ciphertext, keyed by block with IV as the initial shift register.
func NewEncryptStream(block cipher.Block, iv []byte) cipher.Stream {
	return newStream(block, iv, false)
}

// NewDecryptStream returns a stream that CFB-8 decrypts ciphertext back
// into plaintext using the same key and IV as the paired encrypt stream.
func NewDecryptStream(block cipher.Block, iv []byte) cipher.Stream {
	return newStream(block, iv, true)
}
