package phone

import "testing"

func TestNormalizeE164FrenchNational(t *testing.T) {
	got := NormalizeE164("01 23 45 67 89")
	if got != "+33123456789" {
		t.Fatalf("expected +33123456789, got %q", got)
	}
}

func TestNormalizeE164AlreadyInternational(t *testing.T) {
	got := NormalizeE164("+33612345678")
	if got != "+33612345678" {
		t.Fatalf("expected +33612345678, got %q", got)
	}
}

func TestNormalizeE164KeepsUnparseableInput(t *testing.T) {
	got := NormalizeE164("  not-a-number ")
	if got != "not-a-number" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}

func TestNormalizeE164EmptyInput(t *testing.T) {
	if got := NormalizeE164("   "); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
