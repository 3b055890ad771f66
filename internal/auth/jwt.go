package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScopeCatalogRead is the only scope issued today: read access to the query API.
const ScopeCatalogRead = "catalog:read"

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

func GenerateToken(secret, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Scope: ScopeCatalogRead,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
