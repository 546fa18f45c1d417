package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Scheme names a password hashing algorithm.
type Scheme string

const (
	SchemeArgon2id Scheme = "argon2id"
	SchemeBcrypt   Scheme = "bcrypt"
)

const (
	// DefaultBcryptCost is the default cost for bcrypt hashing.
	DefaultBcryptCost = 12
)

// Argon2Params are the argon2id cost parameters used for new digests.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params: 64 MiB, 3 passes, 4 lanes, 16-byte salt, 32-byte key.
var DefaultArgon2Params = Argon2Params{
	Memory:      64 * 1024,
	Iterations:  3,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// PasswordHasher hashes new passwords with the configured scheme and
// verifies digests of any supported scheme.
type PasswordHasher struct {
	scheme     Scheme
	argon2     Argon2Params
	bcryptCost int
}

// NewPasswordHasher creates a PasswordHasher for the given scheme.
func NewPasswordHasher(scheme Scheme) (*PasswordHasher, error) {
	switch scheme {
	case SchemeArgon2id, SchemeBcrypt:
	default:
		return nil, fmt.Errorf("unsupported password scheme %q", scheme)
	}
	return &PasswordHasher{
		scheme:     scheme,
		argon2:     DefaultArgon2Params,
		bcryptCost: DefaultBcryptCost,
	}, nil
}

// Hash returns a self-describing digest of password. The bcrypt scheme
// rejects passwords longer than BcryptMaxBytes with ErrPasswordBytes.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.scheme == SchemeBcrypt {
		if len(password) > BcryptMaxBytes {
			return "", ErrPasswordBytes
		}
		bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}
	return h.hashArgon2id(password)
}

// Verify checks if the provided password matches the digest. A malformed
// digest never matches.
func (h *PasswordHasher) Verify(password, digest string) bool {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return verifyArgon2id(password, digest)
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
	default:
		return false
	}
}

func (h *PasswordHasher) hashArgon2id(password string) (string, error) {
	p := h.argon2
	salt := make([]byte, p.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory, p.Iterations, p.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// verifyArgon2id checks a PHC-format digest:
// $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
func verifyArgon2id(password, digest string) bool {
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}
	if memory == 0 || iterations == 0 || parallelism == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1
}
