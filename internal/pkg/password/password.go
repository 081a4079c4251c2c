// Package password wraps argon2id hashing with per-hash random salts. Hashes
// are encoded as self-describing PHC strings, so verification needs no
// parameter storage:
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<digest>
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrEmptyPassword is returned when hashing or verifying an empty password.
	ErrEmptyPassword = errors.New("password must not be empty")

	// ErrMismatch means the password does not match the hash. Callers must
	// collapse this and ErrMalformedHash into one outward failure so the two
	// halves are indistinguishable to clients.
	ErrMismatch = errors.New("password does not match hash")

	// ErrMalformedHash means the stored hash string could not be parsed.
	ErrMalformedHash = errors.New("malformed password hash")
)

// Params are the argon2id cost settings baked into each hash.
type Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	SaltLen uint32
	KeyLen  uint32
}

// DefaultParams follows the OWASP argon2id recommendation.
var DefaultParams = Params{
	Time:    1,
	Memory:  64 * 1024,
	Threads: 4,
	SaltLen: 16,
	KeyLen:  32,
}

// Hasher hashes and verifies passwords. The zero value is not usable; use New
// or NewWithParams.
type Hasher struct {
	params Params
}

func New() *Hasher {
	return &Hasher{params: DefaultParams}
}

// NewWithParams builds a Hasher with custom cost settings. Intended for tests
// that cannot afford the production memory cost.
func NewWithParams(p Params) *Hasher {
	return &Hasher{params: p}
}

// Hash derives an argon2id digest with a fresh random salt and returns the
// PHC-encoded string.
func (h *Hasher) Hash(password []byte) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, h.params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := argon2.IDKey(password, salt, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.Memory,
		h.params.Time,
		h.params.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	)
	return encoded, nil
}

// Verify recomputes the digest with the parameters embedded in encodedHash and
// compares in constant time. Returns nil on match, ErrMismatch on mismatch,
// and ErrMalformedHash when the stored string cannot be parsed.
func (h *Hasher) Verify(password []byte, encodedHash string) error {
	if len(password) == 0 {
		return ErrEmptyPassword
	}

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return fmt.Errorf("%w: bad version segment", ErrMalformedHash)
	}

	var memory, iterations, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return fmt.Errorf("%w: bad parameter segment", ErrMalformedHash)
	}
	if threads == 0 || threads > 255 {
		return fmt.Errorf("%w: threads out of range", ErrMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return fmt.Errorf("%w: bad salt encoding", ErrMalformedHash)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return fmt.Errorf("%w: bad digest encoding", ErrMalformedHash)
	}
	if len(expected) == 0 || len(expected) > 1<<10 {
		return fmt.Errorf("%w: digest length out of range", ErrMalformedHash)
	}

	computed := argon2.IDKey(password, salt, iterations, memory, uint8(threads), uint32(len(expected)))
	if subtle.ConstantTimeCompare(computed, expected) != 1 {
		return ErrMismatch
	}
	return nil
}
