package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, secret, userID string, expiresAt time.Time) string {
	t.Helper()

	claims := CustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestVerifyJWTToken(t *testing.T) {
	svc := &JWTService{jwtSecretKey: "test-secret"}

	token := signToken(t, "test-secret", "user-123", time.Now().Add(time.Hour))
	userID, err := svc.VerifyJWTToken(token)
	if err != nil {
		t.Fatalf("VerifyJWTToken failed: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}
}

func TestVerifyJWTTokenWrongSecret(t *testing.T) {
	svc := &JWTService{jwtSecretKey: "test-secret"}

	token := signToken(t, "other-secret", "user-123", time.Now().Add(time.Hour))
	if _, err := svc.VerifyJWTToken(token); err == nil {
		t.Error("token signed with a different secret must not verify")
	}
}

func TestVerifyJWTTokenExpired(t *testing.T) {
	svc := &JWTService{jwtSecretKey: "test-secret"}

	token := signToken(t, "test-secret", "user-123", time.Now().Add(-time.Hour))
	if _, err := svc.VerifyJWTToken(token); err == nil {
		t.Error("expired token must not verify")
	}
}

func TestVerifyJWTTokenGarbage(t *testing.T) {
	svc := &JWTService{jwtSecretKey: "test-secret"}

	if _, err := svc.VerifyJWTToken("not.a.token"); err == nil {
		t.Error("garbage token must not verify")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	svc := &JWTService{}

	token, err := svc.ExtractTokenFromHeader("Bearer abc123")
	if err != nil {
		t.Fatalf("ExtractTokenFromHeader failed: %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q, want abc123", token)
	}

	if _, err := svc.ExtractTokenFromHeader(""); err == nil {
		t.Error("missing header must error")
	}
	if _, err := svc.ExtractTokenFromHeader("Basic abc123"); err == nil {
		t.Error("non-bearer header must error")
	}
}
