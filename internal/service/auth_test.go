package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkosyakov/kedb-service/internal/apperrors"
	"github.com/mkosyakov/kedb-service/internal/auth"
	"github.com/mkosyakov/kedb-service/internal/domain"
)

func TestAuthServiceImpl_Login(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		ID:           3,
		Username:     "alice",
		FullName:     "Alice Admin",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}

	testCases := []struct {
		name            string
		username        string
		password        string
		setupMocks      func(users *UserRepositoryMock)
		expectedErrorIs error
	}{
		{
			name:     "Success",
			username: "alice",
			password: "correct horse",
			setupMocks: func(users *UserRepositoryMock) {
				users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
				users.On("UpdateLastLogin", ctx, 3).Return(nil).Once()
			},
		},
		{
			name:     "Success - last login stamp failure is swallowed",
			username: "alice",
			password: "correct horse",
			setupMocks: func(users *UserRepositoryMock) {
				users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
				users.On("UpdateLastLogin", ctx, 3).Return(errors.New("db timeout")).Once()
			},
		},
		{
			name:     "Failure - wrong password",
			username: "alice",
			password: "wrong",
			setupMocks: func(users *UserRepositoryMock) {
				users.On("GetByUsername", ctx, "alice").Return(user, nil).Once()
			},
			expectedErrorIs: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "Failure - unknown username maps to invalid credentials",
			username: "nobody",
			password: "whatever",
			setupMocks: func(users *UserRepositoryMock) {
				users.On("GetByUsername", ctx, "nobody").Return(nil, apperrors.ErrNotFound).Once()
			},
			expectedErrorIs: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			usersMock := new(UserRepositoryMock)
			tc.setupMocks(usersMock)

			service := NewAuthService(logger, usersMock, tokens)
			result, err := service.Login(ctx, tc.username, tc.password)

			if tc.expectedErrorIs != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tc.expectedErrorIs))
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, result.Token)
				assert.Equal(t, 3, result.UserID)
				assert.Equal(t, domain.RoleAdmin, result.Role)

				claims, err := tokens.Parse(result.Token)
				require.NoError(t, err)
				assert.Equal(t, 3, claims.UserID)
			}

			usersMock.AssertExpectations(t)
		})
	}
}
