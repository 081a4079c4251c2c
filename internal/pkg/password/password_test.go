package password

import (
	"errors"
	"strings"
	"testing"
)

// testParams keeps the memory cost low so the suite stays fast.
var testParams = Params{Time: 1, Memory: 8 * 1024, Threads: 1, SaltLen: 16, KeyLen: 32}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	h := NewWithParams(testParams)

	encoded, err := h.Hash([]byte("longenough1"))
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$v=") {
		t.Fatalf("hash is not a PHC argon2id string: %s", encoded)
	}
	if strings.Contains(encoded, "longenough1") {
		t.Fatalf("hash leaks the raw password")
	}

	if err := h.Verify([]byte("longenough1"), encoded); err != nil {
		t.Fatalf("Verify with correct password: %v", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h := NewWithParams(testParams)

	encoded, err := h.Hash([]byte("correct horse"))
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	if err := h.Verify([]byte("battery staple"), encoded); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}

func TestHash_DistinctSalts(t *testing.T) {
	h := NewWithParams(testParams)

	first, err := h.Hash([]byte("samepassword"))
	if err != nil {
		t.Fatalf("first Hash: %v", err)
	}
	second, err := h.Hash([]byte("samepassword"))
	if err != nil {
		t.Fatalf("second Hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password are byte-equal; salt is not random")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	h := NewWithParams(testParams)

	if _, err := h.Hash(nil); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := NewWithParams(testParams)

	cases := []string{
		"",
		"not-a-hash",
		"$bcrypt$v=19$m=8192,t=1,p=1$AAAA$BBBB",
		"$argon2id$v=19$m=8192,t=1,p=1$!!notbase64!!$AAAA",
		"$argon2id$v=19$bogus$AAAA$BBBB",
	}
	for _, encoded := range cases {
		if err := h.Verify([]byte("whatever"), encoded); !errors.Is(err, ErrMalformedHash) {
			t.Fatalf("Verify(%q): expected ErrMalformedHash, got %v", encoded, err)
		}
	}
}

func TestVerify_CrossParams(t *testing.T) {
	// A hash produced with one cost setting must verify under a Hasher with
	// different defaults: the parameters travel inside the hash string.
	producer := NewWithParams(Params{Time: 2, Memory: 16 * 1024, Threads: 2, SaltLen: 16, KeyLen: 32})
	verifier := NewWithParams(testParams)

	encoded, err := producer.Hash([]byte("portable-hash"))
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if err := verifier.Verify([]byte("portable-hash"), encoded); err != nil {
		t.Fatalf("Verify across params: %v", err)
	}
}
