package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/pizza_shop/internal/hash"
	"github.com/Skotchmaster/pizza_shop/internal/logging"
	"github.com/Skotchmaster/pizza_shop/internal/models"
	"github.com/Skotchmaster/pizza_shop/internal/repo"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type UserService struct {
	Repo   *repo.Repo
	Events Publisher
}

func NewUserService(r *repo.Repo, events Publisher) *UserService {
	return &UserService{Repo: r, Events: events}
}

type UserInput struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	TosAgreement bool   `json:"tos_agreement"`
}

// Register creates a new user. Email uniqueness is checked by scanning the
// live users, there is no unique index.
func (s *UserService) Register(ctx context.Context, input UserInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.register")

	user, err := userFromInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.Repo.FindUserByEmail(user.Email)
	if err != nil {
		l.Error("register_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: user already exists", ErrConflict)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	if err := s.Repo.SaveUser(user); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, "user_events", user.ID, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("register_success", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Repo.FindUser(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Update replaces the whole user document with the validated input, keeping
// the original id and creation time.
func (s *UserService) Update(ctx context.Context, id string, input UserInput) (*models.User, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := userFromInput(input)
	if err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt

	if err := s.Repo.SaveUser(updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the user together with its cart and every token it owns.
func (s *UserService) Delete(ctx context.Context, id string) error {
	l := logging.FromContext(ctx).With("svc", "user.delete", "user_id", id)

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.Repo.RemoveUser(id); err != nil {
		return err
	}
	if err := s.Repo.RemoveCart(id); err != nil {
		l.Warn("cart_cleanup_failed", "error", err)
	}

	tokens, err := s.Repo.ListTokens()
	if err != nil {
		l.Warn("token_cleanup_failed", "error", err)
		return nil
	}
	for _, token := range tokens {
		if token.UserID != id {
			continue
		}
		if err := s.Repo.RemoveToken(token.Token); err != nil {
			l.Warn("token_cleanup_failed", "token", token.Token, "error", err)
		}
	}
	return nil
}

func userFromInput(input UserInput) (*models.User, error) {
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if firstName == "" || lastName == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: missing required fields", ErrValidation)
	}
	if !emailRe.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if !input.TosAgreement {
		return nil, fmt.Errorf("%w: tos agreement required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServer, err)
	}

	return &models.User{
		Email:        email,
		PasswordHash: pwHash,
		FirstName:    firstName,
		LastName:     lastName,
		TosAgreement: true,
	}, nil
}
