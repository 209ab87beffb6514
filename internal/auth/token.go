package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/config"
)

// TokenPair bundles a short-lived access token with a long-lived refresh
// token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIssuer mints access and refresh tokens. The two classes are signed
// with independent secrets so that compromise of one secret cannot forge the
// other class.
type TokenIssuer struct {
	codec         *TokenCodec
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(codec *TokenCodec, cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		codec:         codec,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (i *TokenIssuer) IssueAccess(subject string, now time.Time) (string, error) {
	return i.codec.Encode(newClaims(subject, ClassAccess, now, i.accessTTL), i.accessSecret)
}

func (i *TokenIssuer) IssueRefresh(subject string, now time.Time) (string, error) {
	return i.codec.Encode(newClaims(subject, ClassRefresh, now, i.refreshTTL), i.refreshSecret)
}

// IssuePair mints a fresh access+refresh pair for subject.
func (i *TokenIssuer) IssuePair(subject string, now time.Time) (*TokenPair, error) {
	access, err := i.IssueAccess(subject, now)
	if err != nil {
		return nil, err
	}
	refresh, err := i.IssueRefresh(subject, now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func newClaims(subject, class string, now time.Time, ttl time.Duration) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			// Unique per token, so two pairs minted within the same
			// second still differ.
			ID: uuid.NewString(),
		},
		TokenType: class,
	}
}

// TokenVerifier validates tokens against the secret and class the operation
// expects. Every failure mode (bad signature, expiry, wrong class, missing
// subject) collapses into common.ErrAuthentication so callers cannot probe
// which check failed.
type TokenVerifier struct {
	codec         *TokenCodec
	accessSecret  []byte
	refreshSecret []byte
}

func NewTokenVerifier(codec *TokenCodec, cfg config.AuthConfig) *TokenVerifier {
	return &TokenVerifier{
		codec:         codec,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
	}
}

func (v *TokenVerifier) VerifyAccess(tokenString string, now time.Time) (*Claims, error) {
	return v.verify(tokenString, v.accessSecret, ClassAccess, now)
}

func (v *TokenVerifier) VerifyRefresh(tokenString string, now time.Time) (*Claims, error) {
	return v.verify(tokenString, v.refreshSecret, ClassRefresh, now)
}

func (v *TokenVerifier) verify(tokenString string, secret []byte, class string, now time.Time) (*Claims, error) {
	claims, err := v.codec.Decode(tokenString, secret, now)
	if err != nil {
		return nil, common.ErrAuthentication
	}
	if claims.TokenType != class || claims.Subject == "" {
		return nil, common.ErrAuthentication
	}
	return claims, nil
}
