package security_test

import (
	"testing"

	"github.com/soraleth/wavedex/internal/security"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := security.HashPassword("Sup3r-Secret-Pass!")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if hash == "Sup3r-Secret-Pass!" {
		t.Fatalf("hash equals the plaintext")
	}

	err = security.CheckPassword(hash, "Sup3r-Secret-Pass!")

	if err != nil {
		t.Fatalf("CheckPassword rejected the right password: %v", err)
	}

	err = security.CheckPassword(hash, "Wrong-Password-1!")

	if err == nil {
		t.Fatalf("CheckPassword accepted the wrong password")
	}
}

func TestHashPasswordSalts(t *testing.T) {
	h1, err := security.HashPassword("Sup3r-Secret-Pass!")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	h2, err := security.HashPassword("Sup3r-Secret-Pass!")

	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Fatalf("two hashes of the same password should differ")
	}
}
