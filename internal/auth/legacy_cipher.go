package auth

import (
	"bytes"
	"crypto/cipher"
	"crypto/des"
	"encoding/base64"
)

// legacyIV is the constant IV of the pre-bcrypt password format.
var legacyIV = []byte{0x12, 0x34, 0x56, 0x78, 0x90, 0xab, 0xcd, 0xef}

// LegacyCipher reproduces the DES-CBC/fixed-IV/base64 password encoding still
// present in older member rows. Stored values are matched by re-encoding the
// candidate, so only the encrypt direction exists.
type LegacyCipher struct {
	block cipher.Block
}

// NewLegacyCipher builds the cipher from an 8 byte key.
func NewLegacyCipher(key string) (*LegacyCipher, error) {
	block, err := des.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	return &LegacyCipher{block: block}, nil
}

// Encrypt returns the base64 ciphertext of plain.
func (c *LegacyCipher) Encrypt(plain string) (string, error) {
	padded := pkcs7Pad([]byte(plain), des.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, legacyIV).CryptBlocks(out, padded)
	return base64.StdEncoding.EncodeToString(out), nil
}

func pkcs7Pad(data []byte, size int) []byte {
	n := size - len(data)%size
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}
