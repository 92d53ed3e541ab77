// Package cryptox implements the field-level encryption used to protect
// sensitive vault values before they are persisted.
//
// Each value is encrypted with AES-256-CTR under a key derived from the
// process-wide secret and a fresh per-value salt via scrypt. The persisted
// envelope is self-contained:
//
//	<salt-hex>:<iv-hex>:<ciphertext-hex>
//
// Salt and IV are 16 raw bytes each; CTR mode keeps the ciphertext the same
// length as the plaintext. Because salt and IV are random per call, two
// encryptions of the same plaintext never produce the same envelope.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"

	"github.com/mkravets/vaultapi/internal/common"
)

const (
	saltSize = 16
	ivSize   = 16
	keySize  = 32

	// scrypt cost parameters: interactive-grade, memory-hard enough to make
	// brute-forcing the process secret expensive if ciphertext leaks.
	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// Cipher encrypts and decrypts short strings using a process-wide secret.
// The secret is read once from configuration at startup and never mutated.
type Cipher struct {
	secret []byte
}

// New returns a Cipher keyed with the given process secret.
func New(secret string) *Cipher {
	return &Cipher{secret: []byte(secret)}
}

func (c *Cipher) deriveKey(salt []byte) ([]byte, error) {
	return scrypt.Key(c.secret, salt, scryptN, scryptR, scryptP, keySize)
}

// Encrypt encrypts plaintext into a self-contained envelope. A fresh salt
// and IV are generated per call, so the output is non-deterministic.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(saltSize)
	iv := common.GenerateRandByteArray(ivSize)

	key, err := c.deriveKey(salt)
	if err != nil {
		return "", fmt.Errorf("key derivation error: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init error: %w", err)
	}

	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, iv).XORKeyStream(ciphertext, []byte(plaintext))

	return strings.Join([]string{
		hex.EncodeToString(salt),
		hex.EncodeToString(iv),
		hex.EncodeToString(ciphertext),
	}, ":"), nil
}

// Decrypt reverses Encrypt. A malformed envelope (wrong segment count,
// invalid hex, bad salt/IV length) fails with common.ErrorDecryption.
// CTR mode carries no integrity tag, so a well-formed envelope encrypted
// under a different secret decrypts into garbage rather than erroring.
func (c *Cipher) Decrypt(envelope string) (string, error) {
	salt, iv, ciphertext, err := splitEnvelope(envelope)
	if err != nil {
		return "", err
	}

	key, err := c.deriveKey(salt)
	if err != nil {
		return "", fmt.Errorf("key derivation error: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("cipher init error: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, iv).XORKeyStream(plaintext, ciphertext)

	return string(plaintext), nil
}

func splitEnvelope(envelope string) (salt, iv, ciphertext []byte, err error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return nil, nil, nil, fmt.Errorf("%w: expected 3 segments, got %d", common.ErrorDecryption, len(parts))
	}

	salt, err = hex.DecodeString(parts[0])
	if err != nil || len(salt) != saltSize {
		return nil, nil, nil, fmt.Errorf("%w: bad salt segment", common.ErrorDecryption)
	}

	iv, err = hex.DecodeString(parts[1])
	if err != nil || len(iv) != ivSize {
		return nil, nil, nil, fmt.Errorf("%w: bad iv segment", common.ErrorDecryption)
	}

	ciphertext, err = hex.DecodeString(parts[2])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: bad ciphertext segment", common.ErrorDecryption)
	}

	return salt, iv, ciphertext, nil
}
