package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/ridloal/mushaf-storefront/internal/order/repository"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

var (
	ErrEmptyOrder         = errors.New("cart is empty")
	ErrOrderGroupFailed   = errors.New("unable to create order")
	ErrOrderItemsFailed   = errors.New("unable to add items")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// statusAll is accepted from the admin filter form and means "no status filter".
const statusAll = "all"

type OrderService interface {
	PlaceGroupedOrder(ctx context.Context, contact domain.ContactFields, items []domain.CreateOrderItemInput) (*domain.OrderGroup, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderGroup, error)
	Stats(ctx context.Context, filter domain.OrderFilter) (*domain.OrderStats, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) error
	AuditOrphanedGroups(ctx context.Context) int
	StartOrphanAudit(spec string) (stop func(), err error)
}

type orderServiceImpl struct {
	orderRepo    repository.OrderRepository
	orphanMinAge time.Duration
}

func NewOrderService(or repository.OrderRepository, orphanMinAge time.Duration) OrderService {
	return &orderServiceImpl{
		orderRepo:    or,
		orphanMinAge: orphanMinAge,
	}
}

// PlaceGroupedOrder creates the order group, then its items. The two calls are
// not wrapped in a transaction: if the items insert fails the group stays
// behind without items and the error wraps ErrOrderItemsFailed.
func (s *orderServiceImpl) PlaceGroupedOrder(ctx context.Context, contact domain.ContactFields, items []domain.CreateOrderItemInput) (*domain.OrderGroup, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	group, err := s.orderRepo.CreateOrderGroup(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOrderGroupFailed, err)
	}
	if group == nil {
		return nil, ErrOrderGroupFailed
	}

	orderItems, err := s.orderRepo.CreateOrderItems(ctx, group.ID, items)
	if err != nil {
		logger.Error("PlaceGroupedOrder: items insert failed after group was created", err,
			logger.Fields{"order_id": group.ID, "items": len(items)})
		return nil, fmt.Errorf("%w: %v", ErrOrderItemsFailed, err)
	}
	if len(orderItems) != len(items) {
		logger.Error("PlaceGroupedOrder: items insert came back short", nil,
			logger.Fields{"order_id": group.ID, "inserted": len(orderItems), "items": len(items)})
		return nil, fmt.Errorf("%w: inserted %d of %d items", ErrOrderItemsFailed, len(orderItems), len(items))
	}

	group.Items = orderItems
	logger.Info("Order %s placed with %d item(s), total %.2f", group.ID, len(orderItems), group.Total())
	return group, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderGroup, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ListOrders(ctx, filter)
}

func (s *orderServiceImpl) Stats(ctx context.Context, filter domain.OrderFilter) (*domain.OrderStats, error) {
	orders, err := s.ListOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	return ComputeStats(orders), nil
}

// ComputeStats summarizes an order list the way the dashboard header shows it.
func ComputeStats(orders []domain.OrderGroup) *domain.OrderStats {
	stats := &domain.OrderStats{TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalRevenue += o.Total()
		switch o.Status {
		case domain.StatusNew:
			stats.NewOrders++
		case domain.StatusDelivered:
			stats.Delivered++
		}
	}
	return stats
}

func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	logger.Info("Order %s moved to %s", orderID, status)
	return nil
}

func (s *orderServiceImpl) DeleteOrder(ctx context.Context, orderID string) error {
	if err := s.orderRepo.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	logger.Info("Order %s deleted", orderID)
	return nil
}

// AuditOrphanedGroups reports order groups that never received items. It only
// logs them; cleaning up is left to an operator.
func (s *orderServiceImpl) AuditOrphanedGroups(ctx context.Context) int {
	groups, err := s.orderRepo.ListEmptyGroupsOlderThan(ctx, s.orphanMinAge)
	if err != nil {
		logger.Error("AuditOrphanedGroups: failed to list empty order groups", err)
		return 0
	}
	for _, g := range groups {
		logger.Warn("Order group %s (phone %s, created %s) has no items. Needs review.",
			g.ID, g.Phone, g.CreatedAt.Format(time.RFC3339))
	}
	if len(groups) > 0 {
		logger.Warn("AuditOrphanedGroups: found %d order group(s) without items", len(groups))
	}
	return len(groups)
}

// StartOrphanAudit runs AuditOrphanedGroups on a six-field cron spec.
func (s *orderServiceImpl) StartOrphanAudit(spec string) (func(), error) {
	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(spec, func() {
		s.AuditOrphanedGroups(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("invalid orphan audit spec %q: %w", spec, err)
	}
	scheduler.Start()
	logger.Info("Orphaned order audit scheduled with spec '%s' and minimum age %v", spec, s.orphanMinAge)

	return func() {
		<-scheduler.Stop().Done()
	}, nil
}

func normalizeFilter(filter domain.OrderFilter) (domain.OrderFilter, error) {
	if string(filter.Status) == statusAll {
		filter.Status = ""
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return filter, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, filter.Status)
	}
	filter.Phone = strings.TrimSpace(filter.Phone)
	if filter.EndDate != nil {
		// the end date is inclusive of the whole day
		end := filter.EndDate.Add(24 * time.Hour)
		filter.EndDate = &end
	}
	return filter, nil
}
