package token

import (
	"testing"
	"time"
)

func TestIssuer_RoundTrip(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	signed, err := iss.Issue("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, err := iss.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != "user_1" {
		t.Fatalf("expected subject user_1, got %q", id)
	}
}

func TestIssuer_Expired(t *testing.T) {
	iss := NewIssuer("secret", -time.Minute)

	signed, err := iss.Issue("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := iss.Verify(signed); err != ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}

func TestIssuer_Malformed(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	if _, err := iss.Verify("not-a-token"); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestIssuer_WrongSecret(t *testing.T) {
	signed, err := NewIssuer("secret", time.Hour).Issue("user_1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := NewIssuer("other", time.Hour).Verify(signed); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestIssuer_MissingSubject(t *testing.T) {
	iss := NewIssuer("secret", time.Hour)

	// A token signed with the right key but no id claim is still invalid.
	signed, err := NewIssuer("secret", time.Hour).Issue("")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := iss.Verify(signed); err != ErrInvalid {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
