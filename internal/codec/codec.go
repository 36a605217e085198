package codec

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"strings"

	kerrors "github.com/PolarWolf314/rssh/internal/errors"
)

const (
	// DefaultKey is the AES-256 key every rssh vault is sealed with.
	DefaultKey = "3ZmTfHY5pzgNN9m3+Y04/w==Yike5212"

	// DefaultIV is the CBC initialization vector: sixteen 0x03 bytes.
	DefaultIV = "\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03\x03"
)

// Codec turns a vault payload into printable text and back.
type Codec struct {
	block cipher.Block
	iv    []byte
}

// New returns a Codec for the given key and IV. The key must be 32 bytes
// and the IV one AES block.
func New(key, iv []byte) (*Codec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("invalid key size %d: must be 32 bytes", len(key))
	}
	if len(iv) != aes.BlockSize {
		return nil, fmt.Errorf("invalid IV size %d: must be %d bytes", len(iv), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return &Codec{block: block, iv: bytes.Clone(iv)}, nil
}

// Default returns the Codec using DefaultKey and DefaultIV.
func Default() *Codec {
	c, err := New([]byte(DefaultKey), []byte(DefaultIV))
	if err != nil {
		panic(err)
	}
	return c
}

// Seal encrypts plaintext with AES-256-CBC and PKCS#7 padding, then encodes
// it as standard base64. The output is deterministic for a given key and IV.
func (c *Codec) Seal(plaintext []byte) (string, error) {
	padded := pad(plaintext, aes.BlockSize)

	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Open reverses Seal. Surrounding whitespace in text is ignored.
func (c *Codec) Open(text string) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecode, err)
	}

	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d is not a positive multiple of %d",
			kerrors.ErrCrypto, len(ciphertext), aes.BlockSize)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(plaintext, ciphertext)

	plaintext, err = unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrCrypto, err)
	}

	return plaintext, nil
}

// pad appends PKCS#7 padding. A full block is added when data is already aligned.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty plaintext")
	}

	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding length %d", n)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding byte")
		}
	}

	return data[:len(data)-n], nil
}
