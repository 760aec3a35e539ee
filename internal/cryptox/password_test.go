package cryptox

import (
	"bytes"
	"strings"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	pw := []byte("correct horse battery staple")

	encoded, err := HashPassword(pw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected encoding prefix: %q", encoded)
	}

	ok, err := VerifyPassword(pw, encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected password to verify against its own hash")
	}
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	pw := []byte("same password")

	a, err := HashPassword(pw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := HashPassword(pw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// разные соли -> разные строки
	if a == b {
		t.Errorf("expected different encodings for two hashes of the same password")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(nil); err == nil {
		t.Errorf("expected error for empty password")
	}
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	encoded, err := HashPassword([]byte("right"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ok, err := VerifyPassword([]byte("wrong"), encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Errorf("wrong password must not verify")
	}
}

func TestVerifyPassword_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"empty", ""},
		{"not a hash", "password"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
		{"bad salt b64", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{"bad version", "$argon2id$v=banana$m=65536,t=1,p=4$c2FsdA$aGFzaA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword([]byte("pw"), tt.encoded)
			if err == nil {
				t.Errorf("expected error for malformed hash")
			}
			if ok {
				t.Errorf("malformed hash must never match")
			}
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt-16byt")

	k1 := deriveKey(password, salt)
	k2 := deriveKey(password, salt)

	if !bytes.Equal(k1, k2) {
		t.Errorf("expected same result for same inputs, got different")
	}
	if len(k1) != argonKeyLen {
		t.Errorf("expected key length %d, got %d", argonKeyLen, len(k1))
	}
}
