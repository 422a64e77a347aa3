package auth

import (
	"strings"
	"testing"
)

func TestHashPasswordProducesUniqueSalts(t *testing.T) {
	first, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("first hash: %v", err)
	}
	second, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("second hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same password are identical")
	}
	if !strings.Contains(first, ".") {
		t.Fatalf("encoded hash missing salt separator: %s", first)
	}
}

func TestVerifyPasswordRoundTrip(t *testing.T) {
	passwords := []string{"hunter2", "", "pässwörd with spaces", strings.Repeat("x", 200)}
	for _, password := range passwords {
		stored, err := HashPassword(password)
		if err != nil {
			t.Fatalf("hash %q: %v", password, err)
		}
		ok, err := VerifyPassword(password, stored)
		if err != nil {
			t.Fatalf("verify %q: %v", password, err)
		}
		if !ok {
			t.Fatalf("verify %q = false, want true", password)
		}
	}
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	stored, err := HashPassword("correct")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ok, err := VerifyPassword("incorrect", stored)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatalf("wrong password verified")
	}
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	cases := []string{"", "nodot", "not-hex.also-not-hex", "deadbeef.zz"}
	for _, stored := range cases {
		if _, err := VerifyPassword("anything", stored); err == nil {
			t.Fatalf("expected error for stored hash %q", stored)
		}
	}
}
