package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockCatalogRefresher struct {
	mock.Mock
}

func (m *MockCatalogRefresher) RefreshCatalog(ctx context.Context) {
	m.Called(ctx)
}
