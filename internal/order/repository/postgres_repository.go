package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/ridloal/mushaf-storefront/internal/platform/database"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrUnknownProduct = errors.New("one or more products no longer exist")
)

// OrderRepository is the order side of the backend contract. Each call is a
// single statement; nothing here spans more than one round trip in a transaction.
type OrderRepository interface {
	CreateOrderGroup(ctx context.Context, contact domain.ContactFields) (*domain.OrderGroup, error)
	CreateOrderItems(ctx context.Context, groupID string, items []domain.CreateOrderItemInput) ([]domain.OrderItem, error)
	ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderGroup, error)
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error
	DeleteOrder(ctx context.Context, orderID string) error
	ListEmptyGroupsOlderThan(ctx context.Context, age time.Duration) ([]domain.OrderGroup, error)
}

type postgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) OrderRepository {
	return &postgresOrderRepository{db: db}
}

const groupColumns = `id, customer_name, phone, city, address, status, created_at`

func scanGroup(row interface{ Scan(...interface{}) error }) (domain.OrderGroup, error) {
	var g domain.OrderGroup
	err := row.Scan(&g.ID, &g.CustomerName, &g.Phone, &g.City, &g.Address, &g.Status, &g.CreatedAt)
	g.Items = []domain.OrderItem{}
	return g, err
}

func (r *postgresOrderRepository) CreateOrderGroup(ctx context.Context, contact domain.ContactFields) (*domain.OrderGroup, error) {
	query := `INSERT INTO order_groups (customer_name, phone, city, address)
              VALUES ($1, $2, $3, $4) RETURNING ` + groupColumns

	g, err := scanGroup(r.db.QueryRowContext(ctx, query, contact.CustomerName, contact.Phone, contact.City, contact.Address))
	if err != nil {
		logger.Error("CreateOrderGroup: failed to insert order group", err)
		return nil, err
	}
	return &g, nil
}

// CreateOrderItems inserts all lines in one statement. Unit and total price are
// taken from the product row at insert time, not from the caller. A product
// that no longer exists leaves a NULL price, which aborts the whole insert, so
// a group never ends up with only part of its items. Items come back in input
// order; product ids are unique within one call.
func (r *postgresOrderRepository) CreateOrderItems(ctx context.Context, groupID string, items []domain.CreateOrderItemInput) ([]domain.OrderItem, error) {
	productIDs := make([]string, len(items))
	quantities := make([]int64, len(items))
	for i, item := range items {
		productIDs[i] = item.ProductID
		quantities[i] = int64(item.Quantity)
	}

	query := `WITH input AS (
                  SELECT * FROM unnest($2::uuid[], $3::int[]) WITH ORDINALITY AS t(product_id, quantity, ord)
              ), inserted AS (
                  INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
                  SELECT $1, i.product_id, i.quantity, p.price, p.price * i.quantity
                  FROM input i LEFT JOIN products p ON p.id = i.product_id
                  ORDER BY i.ord
                  RETURNING id, order_id, product_id, quantity, unit_price, total_price, created_at
              )
              SELECT ins.id, ins.order_id, ins.product_id, ins.quantity, ins.unit_price, ins.total_price, ins.created_at,
                     p.id, p.name, p.price, p.type, p.stock_quantity
              FROM inserted ins
              JOIN input i ON i.product_id = ins.product_id
              JOIN products p ON p.id = ins.product_id
              ORDER BY i.ord`

	rows, err := r.db.QueryContext(ctx, query, groupID, pq.Array(productIDs), pq.Array(quantities))
	if err != nil {
		logger.Error("CreateOrderItems: insert failed", err, logger.Fields{"order_id": groupID, "items": len(items)})
		if database.IsNotNullViolation(err) || database.IsForeignKeyViolation(err) || database.IsInvalidInput(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownProduct, err)
		}
		return nil, err
	}
	defer rows.Close()

	created, err := scanItems(rows)
	if err != nil {
		logger.Error("CreateOrderItems: scan failed", err, logger.Fields{"order_id": groupID})
		return nil, err
	}
	return created, nil
}

func scanItems(rows *sql.Rows) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	for rows.Next() {
		var it domain.OrderItem
		var p domain.ProductSummary
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CreatedAt,
			&p.ID, &p.Name, &p.Price, &p.Category, &p.StockQuantity); err != nil {
			return nil, err
		}
		it.Product = &p
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListOrders returns matching groups newest first, each with its items attached.
func (r *postgresOrderRepository) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.OrderGroup, error) {
	var (
		conds []string
		args  []interface{}
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Phone != "" {
		args = append(args, "%"+filter.Phone+"%")
		conds = append(conds, fmt.Sprintf("phone ILIKE $%d", len(args)))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		conds = append(conds, fmt.Sprintf("created_at < $%d", len(args)))
	}

	query := `SELECT ` + groupColumns + ` FROM order_groups`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	groups, err := r.queryGroups(ctx, "ListOrders", query, args...)
	if err != nil || len(groups) == 0 {
		return groups, err
	}
	if err := r.attachItems(ctx, groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (r *postgresOrderRepository) queryGroups(ctx context.Context, op, query string, args ...interface{}) ([]domain.OrderGroup, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(op+": query failed", err)
		return nil, err
	}
	defer rows.Close()

	groups := []domain.OrderGroup{}
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			logger.Error(op+": scan failed", err)
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *postgresOrderRepository) attachItems(ctx context.Context, groups []domain.OrderGroup) error {
	ids := make([]string, len(groups))
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
		index[g.ID] = i
	}

	query := `SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, oi.total_price, oi.created_at,
                     p.id, p.name, p.price, p.type, p.stock_quantity
              FROM order_items oi JOIN products p ON p.id = oi.product_id
              WHERE oi.order_id::text = ANY($1)
              ORDER BY oi.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		logger.Error("ListOrders: items query failed", err)
		return err
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		logger.Error("ListOrders: items scan failed", err)
		return err
	}
	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			groups[i].Items = append(groups[i].Items, it)
		}
	}
	return nil
}

func (r *postgresOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, newStatus domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE order_groups SET status = $1 WHERE id = $2`, newStatus, orderID)
	if err != nil {
		if database.IsInvalidInput(err) {
			return ErrOrderNotFound
		}
		logger.Error("UpdateOrderStatus: exec failed", err, logger.Fields{"order_id": orderID, "new_status": newStatus})
		return err
	}
	return expectOneRow(res)
}

// DeleteOrder removes the group; order_items cascade.
func (r *postgresOrderRepository) DeleteOrder(ctx context.Context, orderID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_groups WHERE id = $1`, orderID)
	if err != nil {
		if database.IsInvalidInput(err) {
			return ErrOrderNotFound
		}
		logger.Error("DeleteOrder: exec failed", err, logger.Fields{"order_id": orderID})
		return err
	}
	return expectOneRow(res)
}

func (r *postgresOrderRepository) ListEmptyGroupsOlderThan(ctx context.Context, age time.Duration) ([]domain.OrderGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM order_groups g
              WHERE g.created_at < $1
                AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.order_id = g.id)
              ORDER BY g.created_at ASC`
	return r.queryGroups(ctx, "ListEmptyGroupsOlderThan", query, time.Now().Add(-age))
}

func expectOneRow(res sql.Result) error {
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
