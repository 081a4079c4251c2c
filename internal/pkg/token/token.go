// Package token produces opaque session tokens: 32 bytes from the operating
// system's CSPRNG, encoded URL-safe without padding (43 characters), safe to
// embed in a cookie or URL unescaped.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
)

// rawLen is the entropy of each token in bytes.
const rawLen = 32

// Generate returns a fresh random token. It fails only if the OS randomness
// source does.
func Generate() (string, error) {
	raw := make([]byte, rawLen)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
