package security

import (
	"TurnstileCore/internal/core/ports"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// ErrSealedTooShort means the sealed value cannot even hold a nonce.
var ErrSealedTooShort = errors.New("sealed token is too short")

// aesSealer implements ports.TokenSealer with AES-GCM.
type aesSealer struct {
	gcm cipher.AEAD
	log zerolog.Logger
}

var _ ports.TokenSealer = (*aesSealer)(nil)

// NewAESSealer creates a sealer from a 16 or 32 byte key.
func NewAESSealer(key []byte, baseLogger *zerolog.Logger) (ports.TokenSealer, error) {
	if len(key) != 16 && len(key) != 32 {
		return nil, fmt.Errorf("sealer key must be 16 or 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	log := baseLogger.With().Str("component", "token_sealer").Logger()
	log.Info().Int("key_bits", len(key)*8).Msg("Token sealer initialized")

	return &aesSealer{gcm: gcm, log: log}, nil
}

// Seal encrypts token and returns base64(nonce || ciphertext).
func (s *aesSealer) Seal(token string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		s.log.Error().Err(err).Msg("Failed to generate nonce")
		return "", fmt.Errorf("could not generate nonce: %w", err)
	}

	sealed := s.gcm.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decodes and decrypts a value produced by Seal.
func (s *aesSealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("could not decode sealed token: %w", err)
	}

	nonceSize := s.gcm.NonceSize()
	if len(raw) < nonceSize {
		return "", ErrSealedTooShort
	}

	token, err := s.gcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		// Tampered, corrupt, or sealed under another key
		s.log.Warn().Err(err).Msg("Failed to open sealed token")
		return "", fmt.Errorf("could not open sealed token: %w", err)
	}

	return string(token), nil
}
