package mocks

import (
	"context"

	"github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceGroupedOrder(ctx context.Context, contact domain.ContactFields, items []domain.CreateOrderItemInput) (*domain.OrderGroup, error) {
	args := m.Called(ctx, contact, items)
	if g := args.Get(0); g != nil {
		return g.(*domain.OrderGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderGroup, error) {
	args := m.Called(ctx, filter)
	if o := args.Get(0); o != nil {
		return o.([]domain.OrderGroup), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) Stats(ctx context.Context, filter domain.OrderFilter) (*domain.OrderStats, error) {
	args := m.Called(ctx, filter)
	if s := args.Get(0); s != nil {
		return s.(*domain.OrderStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) AuditOrphanedGroups(ctx context.Context) int {
	args := m.Called(ctx)
	return args.Int(0)
}

func (m *MockOrderService) StartOrphanAudit(spec string) (func(), error) {
	args := m.Called(spec)
	if f := args.Get(0); f != nil {
		return f.(func()), args.Error(1)
	}
	return nil, args.Error(1)
}
