package domain

import (
	"time"
)

type OrderStatus string

const (
	StatusNew       OrderStatus = "new"
	StatusConfirmed OrderStatus = "confirmed"
	StatusShipped   OrderStatus = "shipped"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var AllStatuses = []OrderStatus{StatusNew, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ContactFields are the customer details captured at checkout.
type ContactFields struct {
	CustomerName string `json:"customer_name"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	Address      string `json:"address"`
}

type OrderGroup struct {
	ID string `json:"id"`
	ContactFields
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items"`
}

// Total sums the captured line totals.
func (g OrderGroup) Total() float64 {
	var total float64
	for _, item := range g.Items {
		total += item.TotalPrice
	}
	return total
}

// OrderItem is a price snapshot taken when the order was placed.
type OrderItem struct {
	ID         string          `json:"id"`
	OrderID    string          `json:"order_id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  float64         `json:"unit_price"`
	TotalPrice float64         `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	Product    *ProductSummary `json:"product,omitempty"`
}

type ProductSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Category      string  `json:"type"`
	StockQuantity int     `json:"stock_quantity"`
}

type CreateOrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderFilter narrows the admin order list. Zero values mean "no filter".
type OrderFilter struct {
	Status    OrderStatus `form:"status"`
	Phone     string      `form:"phone"`
	StartDate *time.Time  `form:"start_date" time_format:"2006-01-02" time_utc:"1"`
	EndDate   *time.Time  `form:"end_date" time_format:"2006-01-02" time_utc:"1"`
}

type OrderStats struct {
	TotalOrders  int     `json:"total_orders"`
	TotalRevenue float64 `json:"total_revenue"`
	NewOrders    int     `json:"new_orders"`
	Delivered    int     `json:"delivered"`
}

type UpdateStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required"`
}
