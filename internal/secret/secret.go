package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Keeper seals and opens small secrets (API keys) with AES-256-GCM.
// Stored form is nonce || ciphertext.
type Keeper struct {
	aead cipher.AEAD
}

// NewKeeper derives a Keeper from a 64-hex-character (32-byte) key string.
func NewKeeper(hexKey string) (*Keeper, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encryption key must be 32 bytes (64 hex chars), got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &Keeper{aead: aead}, nil
}

// Encrypt seals plain under a fresh random nonce.
func (k *Keeper) Encrypt(plain string) ([]byte, error) {
	nonce := make([]byte, k.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return k.aead.Seal(nonce, nonce, []byte(plain), nil), nil
}

// Decrypt opens a blob produced by Encrypt. Fails if the blob was produced
// under a different key or has been modified.
func (k *Keeper) Decrypt(blob []byte) (string, error) {
	ns := k.aead.NonceSize()
	if len(blob) < ns {
		return "", errors.New("ciphertext too short")
	}
	plain, err := k.aead.Open(nil, blob[:ns], blob[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt secret: %w", err)
	}
	return string(plain), nil
}
