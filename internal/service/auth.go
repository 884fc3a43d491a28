package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Skotchmaster/pizza_shop/internal/hash"
	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
)

// TokenLength is the fixed length of an auth token in hex characters.
const TokenLength = 20

type AuthService struct {
	Repo *repo.Repo
	TTL  time.Duration

	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewAuthService(r *repo.Repo, ttl time.Duration) *AuthService {
	return &AuthService{Repo: r, TTL: ttl, Now: time.Now}
}

// Issue creates and persists a fresh token for the user with expiry now+TTL.
func (s *AuthService) Issue(ctx context.Context, userID string) (*models.Token, error) {
	id, err := newTokenID()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	token := &models.Token{
		Token:   id,
		UserID:  userID,
		Expires: s.Now().Add(s.TTL).UTC(),
	}
	if err := s.Repo.SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Validate maps a bearer token to its owning user id. A token is valid iff it
// exists and expires after now. An expired token found here is deleted
// eagerly, best-effort.
func (s *AuthService) Validate(ctx context.Context, tokenID string) (string, error) {
	token, err := s.Repo.FindToken(tokenID)
	if err != nil {
		return "", err
	}
	if token == nil {
		return "", ErrUnauthenticated
	}
	if !token.Expires.After(s.Now()) {
		l := logging.FromContext(ctx).With("svc", "auth.validate")
		if err := s.Repo.RemoveToken(tokenID); err != nil {
			l.Warn("expired_token_cleanup_failed", "error", err)
		}
		return "", ErrUnauthenticated
	}
	return token.UserID, nil
}

// Renew extends a currently valid token by TTL. An absent token fails with
// ErrUnauthenticated, an expired one with ErrExpired.
func (s *AuthService) Renew(ctx context.Context, tokenID string) (*models.Token, error) {
	token, err := s.Repo.FindToken(tokenID)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return nil, ErrUnauthenticated
	}
	if !token.Expires.After(s.Now()) {
		return nil, ErrExpired
	}

	token.Expires = s.Now().Add(s.TTL).UTC()
	if err := s.Repo.SaveToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// Revoke deletes a token. Revoking an absent token is not an error.
func (s *AuthService) Revoke(ctx context.Context, tokenID string) error {
	return s.Repo.RemoveToken(tokenID)
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(email)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}
	if user == nil || !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 403, "reason", "invalid email or password")
		return nil, ErrUnauthenticated
	}
	return s.Issue(ctx, user.ID)
}

func newTokenID() (string, error) {
	buf := make([]byte, TokenLength/2)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
