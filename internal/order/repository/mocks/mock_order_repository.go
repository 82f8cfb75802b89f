package mocks

import (
	"context"
	"time"

	"github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrderGroup(ctx context.Context, contact domain.ContactFields) (*domain.OrderGroup, error) {
	args := m.Called(ctx, contact)
	if g := args.Get(0); g != nil {
		return g.(*domain.OrderGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrderItems(ctx context.Context, groupID string, items []domain.CreateOrderItemInput) ([]domain.OrderItem, error) {
	args := m.Called(ctx, groupID, items)
	if oi := args.Get(0); oi != nil {
		return oi.([]domain.OrderItem), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderGroup, error) {
	args := m.Called(ctx, filter)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	args := m.Called(ctx, orderID, newStatus)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderRepository) ListEmptyGroupsOlderThan(ctx context.Context, age time.Duration) ([]domain.OrderGroup, error) {
	args := m.Called(ctx, age)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderGroup), args.Error(1)
	}
	return nil, args.Error(1)
}
