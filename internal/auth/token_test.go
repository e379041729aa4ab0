package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func createTestTokenService(t *testing.T) TokenService {
	t.Helper()

	svc, err := NewTokenService(TokenConfig{
		Secret: "test-secret-for-session-tokens",
		Expiry: time.Hour,
		Issuer: "test-issuer",
	})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}
	return svc
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Secret: "", Expiry: time.Hour})
	if !errors.Is(err, ErrEmptySecret) {
		t.Errorf("Expected ErrEmptySecret, got %v", err)
	}
}

func TestGenerateSessionToken(t *testing.T) {
	svc := createTestTokenService(t)

	issued, err := svc.GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if issued.Token == "" {
		t.Error("Expected non-empty token")
	}
	if issued.ExpiresIn != 3600 {
		t.Errorf("Expected ExpiresIn 3600, got %d", issued.ExpiresIn)
	}
	if time.Until(issued.ExpiresAt) > time.Hour {
		t.Error("ExpiresAt further out than configured expiry")
	}
	// JWT format: three base64 segments
	if parts := strings.Split(issued.Token, "."); len(parts) != 3 {
		t.Errorf("Expected 3 token segments, got %d", len(parts))
	}
}

func TestValidateSessionToken(t *testing.T) {
	svc := createTestTokenService(t)

	issued, err := svc.GenerateSessionToken("session-abc")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	claims, err := svc.ValidateSessionToken(issued.Token)
	if err != nil {
		t.Fatalf("ValidateSessionToken failed: %v", err)
	}

	if claims.SessionID != "session-abc" {
		t.Errorf("Expected session ID 'session-abc', got %q", claims.SessionID)
	}
	if claims.Subject != "session-abc" {
		t.Errorf("Expected subject 'session-abc', got %q", claims.Subject)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("Expected issuer 'test-issuer', got %q", claims.Issuer)
	}
}

func TestValidateSessionToken_Invalid(t *testing.T) {
	svc := createTestTokenService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-token"},
		{"tampered token", func() string {
			issued, _ := svc.GenerateSessionToken("session-x")
			return issued.Token + "x"
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateSessionToken(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestValidateSessionToken_WrongSecret(t *testing.T) {
	svc := createTestTokenService(t)
	other, err := NewTokenService(TokenConfig{
		Secret: "a-completely-different-secret",
		Expiry: time.Hour,
	})
	if err != nil {
		t.Fatalf("Failed to create second service: %v", err)
	}

	issued, err := svc.GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := other.ValidateSessionToken(issued.Token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestValidateSessionToken_Expired(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})
	if err != nil {
		t.Fatalf("Failed to create token service: %v", err)
	}

	issued, err := svc.GenerateSessionToken("session-123")
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}

	if _, err := svc.ValidateSessionToken(issued.Token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}
