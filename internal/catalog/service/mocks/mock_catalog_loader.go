package mocks

import (
	"context"

	"github.com/ridloal/mushaf-storefront/internal/catalog/service"
	"github.com/stretchr/testify/mock"
)

type MockCatalogLoader struct {
	mock.Mock
}

func (m *MockCatalogLoader) Load(ctx context.Context) service.Snapshot {
	args := m.Called(ctx)
	return args.Get(0).(service.Snapshot)
}
