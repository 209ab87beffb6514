package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		SigningAlgorithm:   "HS256",
		AccessTokenTTL:     30 * time.Minute,
		RefreshTokenTTL:    168 * time.Hour,
	}
}

func newTokenPairTools(t *testing.T) (*TokenIssuer, *TokenVerifier) {
	t.Helper()
	codec, err := NewTokenCodec("HS256")
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	cfg := testAuthConfig()
	return NewTokenIssuer(codec, cfg), NewTokenVerifier(codec, cfg)
}

func TestNewTokenCodec_RejectsNonHMAC(t *testing.T) {
	t.Parallel()
	for _, alg := range []string{"RS256", "ES256", "none", "bogus"} {
		if _, err := NewTokenCodec(alg); err == nil {
			t.Fatalf("expected error for algorithm %q", alg)
		}
	}
}

func TestRoundTrip_Access(t *testing.T) {
	t.Parallel()
	issuer, verifier := newTokenPairTools(t)
	now := time.Now()

	tok, err := issuer.IssueAccess("42", now)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := verifier.VerifyAccess(tok, now)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}
	if claims.Subject != "42" || claims.TokenType != ClassAccess {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestRoundTrip_Refresh(t *testing.T) {
	t.Parallel()
	issuer, verifier := newTokenPairTools(t)
	now := time.Now()

	tok, err := issuer.IssueRefresh("42", now)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	claims, err := verifier.VerifyRefresh(tok, now)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if claims.Subject != "42" || claims.TokenType != ClassRefresh {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()
	issuer, verifier := newTokenPairTools(t)
	cfg := testAuthConfig()
	now := time.Now()

	access, err := issuer.IssueAccess("42", now)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	// Still valid just before expiry.
	if _, err := verifier.VerifyAccess(access, now.Add(cfg.AccessTokenTTL-time.Second)); err != nil {
		t.Fatalf("token must still verify before expiry: %v", err)
	}

	// Rejected one second past expiry.
	_, err = verifier.VerifyAccess(access, now.Add(cfg.AccessTokenTTL+time.Second))
	if !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication for expired token, got %v", err)
	}

	refresh, err := issuer.IssueRefresh("42", now)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	_, err = verifier.VerifyRefresh(refresh, now.Add(cfg.RefreshTokenTTL+time.Second))
	if !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("want ErrAuthentication for expired refresh token, got %v", err)
	}
}

func TestVerify_ClassConfusion(t *testing.T) {
	t.Parallel()
	issuer, verifier := newTokenPairTools(t)
	now := time.Now()

	access, err := issuer.IssueAccess("42", now)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	refresh, err := issuer.IssueRefresh("42", now)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	if _, err := verifier.VerifyRefresh(access, now); !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("access token must fail refresh verification, got %v", err)
	}
	if _, err := verifier.VerifyAccess(refresh, now); !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("refresh token must fail access verification, got %v", err)
	}
}

func TestVerify_SecretConfusion(t *testing.T) {
	t.Parallel()
	codec, err := NewTokenCodec("HS256")
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	now := time.Now()

	// A forged "access" token signed with the refresh secret must not pass
	// access verification even though its declared class matches.
	forged, err := codec.Encode(newClaims("42", ClassAccess, now, time.Hour), []byte("refresh-secret"))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	verifier := NewTokenVerifier(codec, testAuthConfig())
	if _, err := verifier.VerifyAccess(forged, now); !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("cross-signed token must be rejected, got %v", err)
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	t.Parallel()
	issuer, verifier := newTokenPairTools(t)
	now := time.Now()

	tok, err := issuer.IssueAccess("42", now)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	// Flip one byte in every region of the token (header, payload,
	// signature); each mutation must invalidate it.
	for _, pos := range []int{2, len(tok) / 2, len(tok) - 3} {
		raw := []byte(tok)
		raw[pos] ^= 0x01
		mutated := string(raw)
		if mutated == tok {
			continue
		}
		if _, err := verifier.VerifyAccess(mutated, now); !errors.Is(err, common.ErrAuthentication) {
			t.Fatalf("tampered token at byte %d must be rejected, got %v", pos, err)
		}
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()
	codec, err := NewTokenCodec("HS256")
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	now := time.Now()

	tok, err := codec.Encode(newClaims("", ClassAccess, now, time.Hour), []byte("access-secret"))
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	verifier := NewTokenVerifier(codec, testAuthConfig())
	if _, err := verifier.VerifyAccess(tok, now); !errors.Is(err, common.ErrAuthentication) {
		t.Fatalf("token without subject must be rejected, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	_, verifier := newTokenPairTools(t)

	for _, bad := range []string{"", "not.a.jwt", strings.Repeat("x", 64)} {
		if _, err := verifier.VerifyAccess(bad, time.Now()); !errors.Is(err, common.ErrAuthentication) {
			t.Fatalf("malformed token %q must be rejected, got %v", bad, err)
		}
	}
}

func TestIssuePair_TokensDiffer(t *testing.T) {
	t.Parallel()
	issuer, _ := newTokenPairTools(t)
	now := time.Now()

	p1, err := issuer.IssuePair("42", now)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}
	p2, err := issuer.IssuePair("42", now)
	if err != nil {
		t.Fatalf("IssuePair error: %v", err)
	}

	if p1.AccessToken == p1.RefreshToken {
		t.Fatal("access and refresh tokens must differ")
	}
	// Even within the same instant, consecutive pairs are distinct.
	if p1.AccessToken == p2.AccessToken || p1.RefreshToken == p2.RefreshToken {
		t.Fatal("consecutive pairs must be distinct")
	}
}
