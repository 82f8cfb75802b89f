package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ridloal/mushaf-storefront/internal/access/domain"
	"github.com/ridloal/mushaf-storefront/internal/access/repository"
	"github.com/ridloal/mushaf-storefront/internal/platform/config"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type AccessService interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	ParseToken(token string) (*domain.Claims, error)
	// IsAdmin trusts an admin role claim first and otherwise asks the users
	// table. A failed lookup counts as not admin.
	IsAdmin(ctx context.Context, claims *domain.Claims) bool
}

type accessService struct {
	repo repository.UserRepository
	cfg  config.AuthConfig
	now  func() time.Time
}

func NewAccessService(repo repository.UserRepository, cfg config.AuthConfig) AccessService {
	return &accessService{repo: repo, cfg: cfg, now: time.Now}
}

func (s *accessService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			logger.Error("Login: failed to get user by email", err)
		}
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := domain.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.JWTSecret)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	user.PasswordHash = ""
	return &domain.LoginResponse{User: *user, Token: token}, nil
}

func (s *accessService) ParseToken(tokenString string) (*domain.Claims, error) {
	claims := &domain.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.JWTSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	return claims, nil
}

func (s *accessService) IsAdmin(ctx context.Context, claims *domain.Claims) bool {
	if claims == nil {
		return false
	}
	if claims.Role == domain.RoleAdmin {
		return true
	}
	if claims.UserID == "" {
		return false
	}

	role, err := s.repo.ResolveRole(ctx, claims.UserID)
	if err != nil {
		logger.Warn("IsAdmin: role lookup failed for %s: %v", claims.UserID, err)
		return false
	}
	return role == domain.RoleAdmin
}
