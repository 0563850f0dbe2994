package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/auth"
	"github.com/mkosyakov/kedb-service/internal/repository"
	"github.com/mkosyakov/kedb-service/pkg/logger/sl"
)

type LoginResult struct {
	Token    string `json:"token"`
	UserID   int    `json:"userId"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type AuthService interface {
	// Login verifies the credentials and issues a signed bearer token.
	// Unknown usernames and wrong passwords both surface as
	// apperrors.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type AuthServiceImpl struct {
	log    *slog.Logger
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(log *slog.Logger, users repository.UserRepository, tokens *auth.TokenManager) *AuthServiceImpl {
	return &AuthServiceImpl{
		log:    log,
		users:  users,
		tokens: tokens,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	const op = "internal.service.auth.Login"
	log := s.log.With(slog.String("op", op), slog.String("username", username))

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrInvalidCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to issue token: %w", op, err)
	}

	// A failed login stamp should not break an otherwise valid login.
	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("user logged in", slog.Int("user_id", user.ID))

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		FullName: user.FullName,
		Role:     user.Role,
	}, nil
}
