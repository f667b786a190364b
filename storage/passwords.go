package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
)

// Supported password hashing algorithms
const (
	HashSHA256   = "sha256"
	HashArgon2id = "argon2id"
)

// PasswordHasher creates and checks password digests
type PasswordHasher interface {
	// Hash returns the digest to store for password
	Hash(password string) (string, error)
	// Verify reports whether password matches the stored digest
	Verify(digest, password string) bool
}

// NewPasswordHasher returns the PasswordHasher for the passed algorithm
func NewPasswordHasher(algorithm string, params Argon2idParams) (PasswordHasher, error) {
	switch algorithm {
	case "", HashSHA256:
		return SHA256Hasher{}, nil
	case HashArgon2id:
		if params.Time == 0 {
			params = defaultArgon2idParams()
		}
		return Argon2idHasher{Params: params}, nil
	default:
		return nil, errors.Errorf("unsupported password hashing algorithm '%s'", algorithm)
	}
}

// HashPassword returns the hex encoded, unsalted SHA-256 digest of password.
// Equal passwords always give equal digests.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// SHA256Hasher is a PasswordHasher producing HashPassword digests
type SHA256Hasher struct{}

// Hash implements the PasswordHasher interface
func (SHA256Hasher) Hash(password string) (string, error) {
	return HashPassword(password), nil
}

// Verify implements the PasswordHasher interface
func (SHA256Hasher) Verify(digest, password string) bool {
	return subtle.ConstantTimeCompare([]byte(digest), []byte(HashPassword(password))) == 1
}

// Argon2idParams configures Argon2id hashing parameters
type Argon2idParams struct {
	Time        uint32 `yaml:"time"`
	MemoryKiB   uint32 `yaml:"memory_kib"`
	Parallelism uint8  `yaml:"parallelism"`
	KeyLen      uint32 `yaml:"key_len"`
	SaltLen     uint32 `yaml:"salt_len"`
}

// Argon2idHasher is a PasswordHasher producing PHC-formatted argon2id strings.
// Digests written by SHA256Hasher are still accepted by Verify.
type Argon2idHasher struct {
	Params Argon2idParams
}

// Hash implements the PasswordHasher interface
func (h Argon2idHasher) Hash(password string) (string, error) {
	return hashPasswordArgon2id(password, h.Params)
}

// Verify implements the PasswordHasher interface
func (Argon2idHasher) Verify(digest, password string) bool {
	if !strings.HasPrefix(digest, "$argon2id$") {
		return SHA256Hasher{}.Verify(digest, password)
	}
	ok, err := verifyPasswordArgon2id(digest, password)
	return err == nil && ok
}

// hashPasswordArgon2id returns a PHC-formatted argon2id hash string
// Format: $argon2id$v=19$m=65536,t=1,p=4$<saltB64>$<hashB64>
func hashPasswordArgon2id(password string, p Argon2idParams) (string, error) {
	if p.Time == 0 {
		p = defaultArgon2idParams()
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	dk := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, p.KeyLen)
	saltB64 := base64.RawStdEncoding.EncodeToString(salt)
	hashB64 := base64.RawStdEncoding.EncodeToString(dk)
	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s", p.MemoryKiB, p.Time, p.Parallelism, saltB64, hashB64), nil
}

// verifyPasswordArgon2id verifies the given password against a PHC-formatted argon2id hash
func verifyPasswordArgon2id(encoded, password string) (bool, error) {
	params, salt, hash, err := parseArgon2id(encoded)
	if err != nil {
		return false, err
	}
	dk := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Parallelism, uint32(len(hash)))
	return subtle.ConstantTimeCompare(dk, hash) == 1, nil
}

// parseArgon2id parses a PHC-formatted argon2id hash and returns parameters, salt and hash bytes.
func parseArgon2id(encoded string) (Argon2idParams, []byte, []byte, error) {
	var out Argon2idParams
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return out, nil, nil, errors.New("invalid argon2id hash format")
	}
	if parts[2] != "v=19" {
		return out, nil, nil, errors.New("unsupported argon2 version")
	}
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, found := strings.Cut(kv, "=")
		if !found {
			continue
		}
		bits := 32
		if k == "p" {
			bits = 8
		}
		n, err := strconv.ParseUint(v, 10, bits)
		if err != nil {
			return out, nil, nil, errors.WithStack(err)
		}
		switch k {
		case "m":
			out.MemoryKiB = uint32(n)
		case "t":
			out.Time = uint32(n)
		case "p":
			out.Parallelism = uint8(n)
		}
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return out, nil, nil, errors.WithStack(err)
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return out, nil, nil, errors.WithStack(err)
	}
	out.SaltLen = uint32(len(salt))
	out.KeyLen = uint32(len(hash))
	return out, salt, hash, nil
}

func defaultArgon2idParams() Argon2idParams {
	return Argon2idParams{Time: 1, MemoryKiB: 64 * 1024, Parallelism: 4, KeyLen: 32, SaltLen: 16}
}
