package handlers

import (
	"testing"
	"time"
)

// TestResolveDayKeysDefault проверяет подстановку текущей даты.
func TestResolveDayKeysDefault(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	month, day, err := resolveDayKeys("", now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if month != "2026-08" || day != "2026-08-31" {
		t.Fatalf("unexpected keys: %q, %q", month, day)
	}
}

// TestResolveDayKeysExplicit проверяет разбор явной даты.
func TestResolveDayKeysExplicit(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	month, day, err := resolveDayKeys("2026-02-14", now)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if month != "2026-02" || day != "2026-02-14" {
		t.Fatalf("unexpected keys: %q, %q", month, day)
	}
}

// TestResolveDayKeysInvalid проверяет отказ для невалидной даты.
func TestResolveDayKeysInvalid(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	if _, _, err := resolveDayKeys("31-08-2026", now); err == nil {
		t.Fatal("expected error for invalid date format")
	}
}
