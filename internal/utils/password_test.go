package utils

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("operator-secret-1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "" || hash == "operator-secret-1" {
		t.Fatalf("unexpected hash %q", hash)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}

	// Salted: hashing the same input twice must differ
	again, _ := HashPassword("operator-secret-1")
	if hash == again {
		t.Error("same password produced identical hashes")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, _ := HashPassword("operator-secret-1")

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{"correct password", "operator-secret-1", hash, true},
		{"wrong password", "operator-secret-2", hash, false},
		{"empty password", "", hash, false},
		{"case sensitive", "Operator-Secret-1", hash, false},
		{"garbage hash", "operator-secret-1", "not-a-hash", false},
		{"empty hash", "operator-secret-1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPassword(tt.password, tt.hash); got != tt.want {
				t.Errorf("CheckPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}
