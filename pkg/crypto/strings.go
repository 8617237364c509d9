package crypto

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecryptionFailed is returned when a value handed to DecryptString is not
// ciphertext produced by EncryptString: wrong encoding, wrong key, truncated
// data, or plaintext that was never encrypted. Callers must treat it as a
// hard failure and never fall back to the raw value.
var ErrDecryptionFailed = errors.New("value is not valid ciphertext")

// StringCipher is the encryption boundary for at-rest string fields. Every
// designated field is encrypted immediately before persistence and decrypted
// immediately after retrieval; decrypt(encrypt(x)) == x for all strings x.
type StringCipher struct {
	cipher SymmetricCipher
}

// NewStringCipher wraps a SymmetricCipher for string fields. Ciphertext is
// base64-encoded so it can live in text columns.
func NewStringCipher(cipher SymmetricCipher) *StringCipher {
	return &StringCipher{cipher: cipher}
}

// NewStringCipherFromKey builds a StringCipher directly from a raw AES key.
func NewStringCipherFromKey(key []byte) (*StringCipher, error) {
	cipher, err := NewSymmetric(key)
	if err != nil {
		return nil, err
	}
	return NewStringCipher(cipher), nil
}

// EncryptString encrypts a plaintext field value. The empty string is
// encrypted like any other value so persisted columns are uniformly
// ciphertext.
func (c *StringCipher) EncryptString(plain string) (string, error) {
	packed, err := c.cipher.Encrypt(nil, []byte(plain))
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(packed), nil
}

// DecryptString reverses EncryptString. Anything that does not round-trip
// through the cipher, including plaintext, yields ErrDecryptionFailed.
func (c *StringCipher) DecryptString(encrypted string) (string, error) {
	packed, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	plain, err := c.cipher.Decrypt(nil, packed)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plain), nil
}
