package utils

import (
	"crypto/rand"     // Salt generation
	"crypto/subtle"   // Constant time comparison
	"encoding/base64" // PHC string encoding
	"errors"          // Sentinel errors
	"fmt"             // Formatting and parsing
	"strings"         // Hash string splitting

	"golang.org/x/crypto/argon2" // Argon2id key derivation
	"golang.org/x/crypto/bcrypt" // Legacy password hashes
)

// ErrMalformedHash is returned when a stored hash cannot be decoded
var ErrMalformedHash = errors.New("malformed hash")

// HashParams tunes the argon2id cost
type HashParams struct {
	Memory      uint32 // Memory in KiB
	Iterations  uint32 // Number of passes
	Parallelism uint8  // Threads
	SaltLength  uint32 // Salt size in bytes
	KeyLength   uint32 // Derived key size in bytes
}

// DefaultHashParams returns the production cost settings
func DefaultHashParams() HashParams {
	return HashParams{
		Memory:      64 * 1024, // 64 MiB
		Iterations:  1,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

// Hasher hashes and verifies passwords and refresh tokens
type Hasher struct {
	params HashParams
}

// NewHasher creates a Hasher with the given cost settings
func NewHasher(params HashParams) *Hasher {
	return &Hasher{params: params}
}

// Hash returns a salted argon2id hash encoded as a PHC string
func (h *Hasher) Hash(raw string) (string, error) {
	salt := make([]byte, h.params.SaltLength) // Random salt per hash
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(raw), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.params.Memory, h.params.Iterations, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether raw matches the encoded hash.
// Hashes written by bcrypt are still accepted.
func (h *Hasher) Verify(encoded, raw string) (bool, error) {
	if strings.HasPrefix(encoded, "$2") {
		err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
		}
		return true, nil
	}

	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false, ErrMalformedHash
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return false, ErrMalformedHash
	}
	other := argon2.IDKey([]byte(raw), salt, iterations, memory, parallelism, uint32(len(key)))
	return subtle.ConstantTimeCompare(key, other) == 1, nil
}
