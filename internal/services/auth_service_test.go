package services

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret", zerolog.Nop())

	token, err := svc.GenerateToken(7, "driver@example.com", "driver")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Email != "driver@example.com" {
		t.Errorf("Email = %q, want driver@example.com", claims.Email)
	}
	if claims.Role != "driver" {
		t.Errorf("Role = %q, want driver", claims.Role)
	}
}

func TestValidateTokenRejectsBadInput(t *testing.T) {
	svc := NewAuthService("test-secret", zerolog.Nop())

	token, err := svc.GenerateToken(1, "a@example.com", "customer")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"tampered", token + "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateToken(tt.token); err == nil {
				t.Error("ValidateToken() expected error, got nil")
			}
		})
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService("secret-one", zerolog.Nop())
	verifier := NewAuthService("secret-two", zerolog.Nop())

	token, err := issuer.GenerateToken(1, "a@example.com", "customer")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted a token signed with a different secret")
	}
}
