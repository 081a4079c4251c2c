package token_test

import (
	"testing"

	"github.com/masjidmap/auth-service/internal/core/service"
	"github.com/masjidmap/auth-service/internal/pkg/token"
)

func TestGenerate_NoDuplicates(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		tok, err := token.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if _, dup := seen[tok]; dup {
			t.Fatalf("duplicate token after %d generations: %s", i, tok)
		}
		seen[tok] = struct{}{}
	}
}

func TestGenerate_MatchesSessionTokenShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		tok, err := token.Generate()
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(tok) != 43 {
			t.Fatalf("expected 43-character token, got %d (%s)", len(tok), tok)
		}
		if err := service.ValidateSessionToken(tok); err != nil {
			t.Fatalf("generated token rejected by shape validator: %v", err)
		}
	}
}

func TestGenerate_ConsecutiveCallsDiffer(t *testing.T) {
	first, err := token.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := token.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if first == second {
		t.Fatalf("two consecutive tokens are equal: %s", first)
	}
}
