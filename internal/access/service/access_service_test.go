package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/mushaf-storefront/internal/access/domain"
	"github.com/ridloal/mushaf-storefront/internal/access/repository"
	"github.com/ridloal/mushaf-storefront/internal/access/repository/mocks"
	"github.com/ridloal/mushaf-storefront/internal/platform/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testAuth = config.AuthConfig{JWTSecret: []byte("test-secret"), TokenTTL: time.Hour}

func TestAccessService_Login(t *testing.T) {
	ctx := context.TODO()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	adminUser := func() *domain.User {
		return &domain.User{ID: "user-123", Email: "admin@example.com", Role: domain.RoleAdmin, PasswordHash: string(hashedPassword)}
	}

	t.Run("Successful login", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewAccessService(mockRepo, testAuth)
		mockRepo.On("GetUserByEmail", ctx, "admin@example.com").Return(adminUser(), nil).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Email: " Admin@Example.com ", Password: "password123"})

		require.NoError(t, err)
		assert.Empty(t, resp.User.PasswordHash)
		assert.NotEmpty(t, resp.Token)

		claims, err := svc.ParseToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID)
		assert.Equal(t, domain.RoleAdmin, claims.Role)
		mockRepo.AssertExpectations(t)
	})

	t.Run("Wrong password", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewAccessService(mockRepo, testAuth)
		mockRepo.On("GetUserByEmail", ctx, "admin@example.com").Return(adminUser(), nil).Once()

		resp, err := svc.Login(ctx, domain.LoginRequest{Email: "admin@example.com", Password: "nope"})

		assert.Nil(t, resp)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewAccessService(mockRepo, testAuth)
		mockRepo.On("GetUserByEmail", ctx, "ghost@example.com").Return(nil, repository.ErrUserNotFound).Once()

		_, err := svc.Login(ctx, domain.LoginRequest{Email: "ghost@example.com", Password: "password123"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAccessService_ParseToken(t *testing.T) {
	svc := NewAccessService(new(mocks.MockUserRepository), testAuth)
	sign := func(claims domain.Claims, secret []byte) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
		require.NoError(t, err)
		return token
	}

	t.Run("Expired token", func(t *testing.T) {
		token := sign(domain.Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}}, testAuth.JWTSecret)

		_, err := svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Foreign signature", func(t *testing.T) {
		token := sign(domain.Claims{UserID: "u1"}, []byte("other-secret"))

		_, err := svc.ParseToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Subject fills user id", func(t *testing.T) {
		token := sign(domain.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "u9"}}, testAuth.JWTSecret)

		claims, err := svc.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u9", claims.UserID)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ParseToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestAccessService_IsAdmin(t *testing.T) {
	ctx := context.TODO()

	t.Run("Role claim wins without lookup", func(t *testing.T) {
		mockRepo := new(mocks.MockUserRepository)
		svc := NewAccessService(mockRepo, testAuth)

		assert.True(t, svc.IsAdmin(ctx, &domain.Claims{UserID: "u1", Role: domain.RoleAdmin}))
		mockRepo.AssertNotCalled(t, "ResolveRole", ctx, "u1")
	})

	tests := []struct {
		name    string
		role    string
		repoErr error
		want    bool
	}{
		{"Table says admin", "admin", nil, true},
		{"Table says customer", "customer", nil, false},
		{"No row", "", nil, false},
		{"Lookup error", "", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(mocks.MockUserRepository)
			svc := NewAccessService(mockRepo, testAuth)
			mockRepo.On("ResolveRole", ctx, "u1").Return(tt.role, tt.repoErr).Once()

			assert.Equal(t, tt.want, svc.IsAdmin(ctx, &domain.Claims{UserID: "u1", Role: "customer"}))
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("No session", func(t *testing.T) {
		svc := NewAccessService(new(mocks.MockUserRepository), testAuth)
		assert.False(t, svc.IsAdmin(ctx, nil))
		assert.False(t, svc.IsAdmin(ctx, &domain.Claims{}))
	})
}
