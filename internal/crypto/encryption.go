// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters (OWASP recommended)
	argon2Time    = 1         // iterations
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4         // parallelism
	argon2KeyLen  = 32        // AES-256

	// SaltLen is the length of salts produced by NewSalt.
	SaltLen = 32

	envelopeVersion = 1
)

// ErrEmptySecret is returned when deriving a key from an empty masked value.
var ErrEmptySecret = errors.New("secret is empty")

// KDFParams are the Argon2id cost parameters.
type KDFParams struct {
	Time      uint32 `yaml:"time" description:"Argon2id iterations" default:"1"`
	MemoryKiB uint32 `yaml:"memory_kib" description:"Argon2id memory in KiB" default:"65536"`
	Threads   uint8  `yaml:"threads" description:"Argon2id parallelism" default:"4"`
	KeyLen    uint32 `yaml:"key_len" description:"Derived key length in bytes" default:"32"`
}

// DefaultKDFParams returns the OWASP recommended Argon2id parameters.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Time:      argon2Time,
		MemoryKiB: argon2Memory,
		Threads:   argon2Threads,
		KeyLen:    argon2KeyLen,
	}
}

// Validate checks that the parameters are usable by argon2.IDKey.
func (p KDFParams) Validate() error {
	if p.Time == 0 {
		return fmt.Errorf("kdf time must be > 0")
	}
	if p.Threads == 0 {
		return fmt.Errorf("kdf threads must be > 0")
	}
	if p.MemoryKiB < 8*uint32(p.Threads) {
		return fmt.Errorf("kdf memory_kib must be at least 8*threads (%d)", 8*uint32(p.Threads))
	}
	if p.KeyLen != 16 && p.KeyLen != 24 && p.KeyLen != 32 {
		return fmt.Errorf("kdf key_len must be 16, 24 or 32, got %d", p.KeyLen)
	}
	return nil
}

// EncryptedData stores the encrypted content with metadata
type EncryptedData struct {
	EnvelopeVersion int    `json:"envelope_version"`
	Salt            string `json:"salt"`       // Base64-encoded Argon2id salt
	Nonce           string `json:"nonce"`      // Base64-encoded nonce for AES-GCM
	Ciphertext      string `json:"ciphertext"` // Base64-encoded encrypted data
}

// IsEncrypted checks if data appears to be in encrypted format
func IsEncrypted(data []byte) bool {
	var encrypted EncryptedData
	return json.Unmarshal(data, &encrypted) == nil && encrypted.EnvelopeVersion > 0
}

// NewSalt draws a random salt. A nil rng uses crypto/rand.
func NewSalt(rng io.Reader) ([]byte, error) {
	if rng == nil {
		rng = rand.Reader
	}
	salt := make([]byte, SaltLen)
	if _, err := io.ReadFull(rng, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives a key from a masked secret using Argon2id.
// The plaintext exists only inside the masked value's locked buffer.
// Caller is responsible for zeroing the returned key when done.
func DeriveKey(secret *MaskedValue, salt []byte, params KDFParams) ([]byte, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if secret == nil || secret.IsEmpty() {
		return nil, ErrEmptySecret
	}

	var key []byte
	err := secret.WithPlaintext(func(p []byte) error {
		key = argon2.IDKey(p, salt, params.Time, params.MemoryKiB, params.Threads, params.KeyLen)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return key, nil
}

// Fingerprint returns a short hex identifier for a derived key.
func Fingerprint(key []byte) string {
	sum := sha256.Sum256(key)
	return hex.EncodeToString(sum[:8])
}

// Seal encrypts plaintext with a derived key and records the salt it came from.
func Seal(plaintext, key, salt []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	encrypted := EncryptedData{
		EnvelopeVersion: envelopeVersion,
		Salt:            base64.StdEncoding.EncodeToString(salt),
		Nonce:           base64.StdEncoding.EncodeToString(nonce),
		Ciphertext:      base64.StdEncoding.EncodeToString(ciphertext),
	}
	return json.MarshalIndent(encrypted, "", "  ")
}

// ReadSalt returns the salt recorded in an envelope so the key can be re-derived.
func ReadSalt(encryptedJSON []byte) ([]byte, error) {
	var encrypted EncryptedData
	if err := json.Unmarshal(encryptedJSON, &encrypted); err != nil {
		return nil, fmt.Errorf("failed to parse encrypted data: %w", err)
	}
	salt, err := base64.StdEncoding.DecodeString(encrypted.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	return salt, nil
}

// Open decrypts an envelope produced by Seal.
func Open(encryptedJSON, key []byte) ([]byte, error) {
	var encrypted EncryptedData
	if err := json.Unmarshal(encryptedJSON, &encrypted); err != nil {
		return nil, fmt.Errorf("failed to parse encrypted data: %w", err)
	}
	if encrypted.EnvelopeVersion != envelopeVersion {
		return nil, fmt.Errorf("envelope_version %d not supported (expected %d)", encrypted.EnvelopeVersion, envelopeVersion)
	}

	nonce, err := base64.StdEncoding.DecodeString(encrypted.Nonce)
	if err != nil {
		return nil, fmt.Errorf("failed to decode nonce: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(encrypted.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	if len(nonce) != gcm.NonceSize() {
		return nil, fmt.Errorf("invalid nonce length %d", len(nonce))
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}
	return plaintext, nil
}
