package auth

import (
	"context"
	"errors"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/joyal-jij0/pragati/internal/common"
	"github.com/joyal-jij0/pragati/internal/logging"
	"github.com/joyal-jij0/pragati/internal/users"
)

// Service orchestrates registration, login, token refresh, and principal
// resolution over the credential store, hasher, and token layer.
type Service struct {
	repo     users.Repository
	hasher   *PasswordHasher
	issuer   *TokenIssuer
	verifier *TokenVerifier
	logger   logging.Logger
	now      func() time.Time
}

func NewService(repo users.Repository, hasher *PasswordHasher, issuer *TokenIssuer, verifier *TokenVerifier, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		hasher:   hasher,
		issuer:   issuer,
		verifier: verifier,
		logger:   logger.With("component", "authsvc"),
		now:      time.Now,
	}
}

// RegisterResult is returned on successful registration: the created user and
// an initial token pair.
type RegisterResult struct {
	User   *users.User
	Tokens TokenPair
}

// Register validates input, hashes the password, and creates the user. A
// duplicate email surfaces as *common.ConflictError unchanged; no retry is
// attempted.
func (s *Service) Register(ctx context.Context, email, password string) (*RegisterResult, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, &common.ValidationError{Field: "password", Reason: "must not be empty"}
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrInternal
	}

	user, err := s.repo.Create(ctx, email, hash)
	if err != nil {
		var conflict *common.ConflictError
		if errors.As(err, &conflict) {
			return nil, err
		}
		s.logger.Error(ctx, "user creation failed", "error", err)
		return nil, common.ErrInternal
	}

	pair, err := s.issuer.IssuePair(subjectFor(user), s.now())
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrInternal
	}

	return &RegisterResult{User: user, Tokens: *pair}, nil
}

// Login verifies credentials and mints a token pair. An unknown email and a
// wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthentication
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrAuthentication
	}

	pair, err := s.issuer.IssuePair(subjectFor(user), s.now())
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrInternal
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access+refresh pair. The
// presented refresh token is not invalidated; it stays verifiable until its
// natural expiry.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.verifier.VerifyRefresh(refreshToken, s.now())
	if err != nil {
		return nil, common.ErrAuthentication
	}

	user, err := s.lookupSubject(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}

	pair, err := s.issuer.IssuePair(subjectFor(user), s.now())
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrInternal
	}
	return pair, nil
}

// ResolvePrincipal returns the user behind a bearer access token. Protected
// route handlers depend on this to gate functionality.
func (s *Service) ResolvePrincipal(ctx context.Context, accessToken string) (*users.User, error) {
	claims, err := s.verifier.VerifyAccess(accessToken, s.now())
	if err != nil {
		return nil, common.ErrAuthentication
	}
	return s.lookupSubject(ctx, claims.Subject)
}

func (s *Service) lookupSubject(ctx context.Context, subject string) (*users.User, error) {
	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, common.ErrAuthentication
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthentication
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrInternal
	}
	return user, nil
}

func subjectFor(u *users.User) string {
	return strconv.FormatInt(u.ID, 10)
}

func validateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return &common.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &common.ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}
