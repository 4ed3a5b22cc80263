package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := JWTClaims{
		Subject: "ops-dashboard",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestValidateToken(t *testing.T) {
	subject, err := ValidateToken(signedToken(t, testSecret, time.Hour), testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if subject != "ops-dashboard" {
		t.Errorf("subject = %q, want %q", subject, "ops-dashboard")
	}
}

func TestValidateTokenStripsBearerPrefix(t *testing.T) {
	subject, err := ValidateToken("Bearer "+signedToken(t, testSecret, time.Hour), testSecret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if subject != "ops-dashboard" {
		t.Errorf("subject = %q, want %q", subject, "ops-dashboard")
	}
}

func TestValidateTokenFailures(t *testing.T) {
	cases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"missing", "", ErrMissingToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"wrong_secret", signedToken(t, "other-secret", time.Hour), ErrInvalidToken},
		{"expired", signedToken(t, testSecret, -time.Hour), ErrExpiredToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ValidateToken(tc.token, testSecret); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}
