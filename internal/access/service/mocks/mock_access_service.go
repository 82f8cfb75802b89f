package mocks

import (
	"context"

	"github.com/ridloal/mushaf-storefront/internal/access/domain"
	"github.com/stretchr/testify/mock"
)

type MockAccessService struct {
	mock.Mock
}

func (m *MockAccessService) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*domain.LoginResponse), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessService) ParseToken(token string) (*domain.Claims, error) {
	args := m.Called(token)
	if c := args.Get(0); c != nil {
		return c.(*domain.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAccessService) IsAdmin(ctx context.Context, claims *domain.Claims) bool {
	args := m.Called(ctx, claims)
	return args.Bool(0)
}
