// Package auth mints and parses the bearer tokens AuthFacade issues on
// successful verification (spec.md §4.5/§6).
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkarasev/zkid/internal/common"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims embeds the registered claim set plus the authenticated username.
type Claims struct {
	jwt.RegisteredClaims
	Username string
}

// Issuer mints and validates HS256 bearer tokens.
type Issuer struct {
	secretKey        []byte
	validityDuration time.Duration
}

func NewIssuer(secretKey []byte, validityDuration time.Duration) *Issuer {
	return &Issuer{secretKey: secretKey, validityDuration: validityDuration}
}

// Issue returns a signed token and its validity duration. Each token gets a
// random jti so two tokens issued for the same username in the same second
// are still distinguishable in audit logs.
func (i *Issuer) Issue(username string) (token string, expiresIn time.Duration, err error) {
	jti, err := common.MakeRandHexString(16)
	if err != nil {
		return "", 0, fmt.Errorf("auth: failed to generate jti: %w", err)
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.validityDuration)),
		},
		Username: username,
	})

	signed, err := t.SignedString(i.secretKey)
	if err != nil {
		return "", 0, err
	}
	return signed, i.validityDuration, nil
}

// Username parses and validates token, returning the embedded username.
func (i *Issuer) Username(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secretKey, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	return claims.Username, nil
}
