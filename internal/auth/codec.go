package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec encodes and decodes signed claims. It is pure: signing and
// verification are functions of (claims, secret, clock) with no I/O.
type TokenCodec struct {
	method jwt.SigningMethod
}

// NewTokenCodec resolves the signing algorithm identifier. Only HMAC
// algorithms are accepted; anything else is a configuration error.
func NewTokenCodec(alg string) (*TokenCodec, error) {
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", alg)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", alg)
	}
	return &TokenCodec{method: method}, nil
}

// Encode signs claims with the given secret.
func (c *TokenCodec) Encode(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(secret)
}

// Decode parses tokenString and verifies its signature and expiry as of now.
// Expiry is strict: a token is rejected from the instant now >= exp.
func (c *TokenCodec) Decode(tokenString string, secret []byte, now time.Time) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
