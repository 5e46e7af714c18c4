package security_test

import (
	"testing"

	"github.com/soraleth/wavedex/internal/security"
)

func TestNewSessionToken(t *testing.T) {
	a, err := security.NewSessionToken()

	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	b, err := security.NewSessionToken()

	if err != nil {
		t.Fatalf("NewSessionToken failed: %v", err)
	}

	if a == b {
		t.Fatalf("two tokens should never collide")
	}

	// 32 random bytes base64url-encoded without padding
	if len(a) != 43 {
		t.Fatalf("token length %d, want 43", len(a))
	}
}

func TestHashToken(t *testing.T) {
	secret := []byte("test-secret")

	h1 := security.HashToken(secret, "raw-token")
	h2 := security.HashToken(secret, "raw-token")

	if h1 != h2 {
		t.Fatalf("same secret and token must hash identically")
	}

	if h1 == "raw-token" {
		t.Fatalf("hash equals the input")
	}

	if security.HashToken([]byte("other-secret"), "raw-token") == h1 {
		t.Fatalf("different secrets must produce different hashes")
	}

	if security.HashToken(secret, "other-token") == h1 {
		t.Fatalf("different tokens must produce different hashes")
	}
}
