package auth

import (
	"errors"
	"testing"
)

// TestValidatePIN проверяет формат PIN-кода.
func TestValidatePIN(t *testing.T) {
	if err := ValidatePIN("1234"); err != nil {
		t.Fatalf("expected valid pin, got %v", err)
	}

	for _, bad := range []string{"", "123", "12345", "12a4", "12 4"} {
		if err := ValidatePIN(bad); !errors.Is(err, ErrInvalidPIN) {
			t.Fatalf("expected ErrInvalidPIN for %q, got %v", bad, err)
		}
	}
}

// TestHashAndComparePIN проверяет цикл хэширования и сравнения.
func TestHashAndComparePIN(t *testing.T) {
	hash, err := HashPIN("0420")
	if err != nil {
		t.Fatalf("expected hash, got %v", err)
	}

	if err := ComparePIN(hash, "0420"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := ComparePIN(hash, "0421"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

// TestHashPINRejectsInvalid проверяет отказ хэшировать невалидный PIN.
func TestHashPINRejectsInvalid(t *testing.T) {
	if _, err := HashPIN("abcd"); !errors.Is(err, ErrInvalidPIN) {
		t.Fatalf("expected ErrInvalidPIN, got %v", err)
	}
}
