package concierge

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// Sealer encrypts credentials before they are written to the snapshot store.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 32-byte key from secret. An empty secret yields a random
// key, so sealed values do not survive a restart.
func NewSealer(secret string) (*Sealer, error) {
	var key []byte
	if secret == "" {
		key = make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(rand.Reader, key); err != nil {
			return nil, fmt.Errorf("generate seal key: %w", err)
		}
	} else {
		sum := sha256.Sum256([]byte(secret))
		key = sum[:]
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("new xchacha20poly1305: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts value, binding it to sessionID.
func (s *Sealer) Seal(sessionID, value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	out := s.aead.Seal(nonce, nonce, []byte(value), []byte(sessionID))
	return base64.RawStdEncoding.EncodeToString(out), nil
}

// Open reverses Seal for the same session.
func (s *Sealer) Open(sessionID, sealed string) (string, error) {
	payload, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode sealed value: %w", err)
	}
	n := s.aead.NonceSize()
	if len(payload) < n {
		return "", fmt.Errorf("sealed value too short")
	}
	plain, err := s.aead.Open(nil, payload[:n], payload[n:], []byte(sessionID))
	if err != nil {
		return "", fmt.Errorf("open sealed value: %w", err)
	}
	return string(plain), nil
}
