package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"propvest/internal/middleware"
)

// AccessToken signs a one-hour access token for ownerID the way the account
// service does.
func AccessToken(t *testing.T, ownerID, secret string) string {
	t.Helper()

	now := time.Now()
	claims := &middleware.JWTClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    middleware.TokenIssuer,
			Subject:   ownerID,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}
