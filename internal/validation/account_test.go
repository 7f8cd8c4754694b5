package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+tag@sub.example.org"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", e, err)
		}
	}

	invalid := []string{"", "no-at-sign", "user@", "Someone <user@example.com>"}
	for _, e := range invalid {
		if err := ValidateEmail(e); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", e)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("greenb33s"); err != nil {
		t.Errorf("expected valid password, got %v", err)
	}

	invalid := []string{"short1", "allletters", "12345678"}
	for _, p := range invalid {
		if err := ValidatePassword(p); err == nil {
			t.Errorf("ValidatePassword(%q) = nil, want error", p)
		}
	}
}

func TestValidateDisplayName(t *testing.T) {
	if err := ValidateDisplayName("Alex"); err != nil {
		t.Errorf("expected valid display name, got %v", err)
	}
	if err := ValidateDisplayName("   "); err == nil {
		t.Error("blank display name should be rejected")
	}
	if err := ValidateDisplayName("bad\x00name"); err == nil {
		t.Error("control characters should be rejected")
	}
}
