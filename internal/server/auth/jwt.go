// Package auth issues and verifies the access tokens guarding the HTTP API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/akarpov87/pagevault/internal/common"
)

// Claims carries the standard registered claims; PageVault is a
// single-operator deployment, so there is no per-user identity.
type Claims struct {
	jwt.RegisteredClaims
}

// GenerateToken signs a fresh HS256 token valid for validityDuration.
func GenerateToken(secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken parses and validates tokenString. Any parse or validation
// failure maps to common.ErrInvalidToken.
func VerifyToken(tokenString string, secretKey []byte) error {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey, nil
	})
	if err != nil {
		return common.ErrInvalidToken
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}

	return nil
}
