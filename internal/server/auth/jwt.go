// Package auth holds the credential primitives used by the services layer:
// bcrypt password hashing and HMAC-signed session cookies.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tilapp/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims wraps the opaque session id in a signed cookie value so a forged
// or tampered cookie is rejected before the session store is consulted.
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

func SignSessionID(sessionID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		SessionID: sessionID,
	})

	return token.SignedString(secretKey)
}

// SessionIDFromCookie verifies the cookie value and extracts the session id.
// Expired cookies yield common.ErrTokenExpired, anything else unverifiable
// yields common.ErrInvalidToken.
func SessionIDFromCookie(value string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.SessionID, nil
}
