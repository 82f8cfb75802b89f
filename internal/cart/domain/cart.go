package domain

import (
	catalogDomain "github.com/ridloal/mushaf-storefront/internal/catalog/domain"
)

// CartItem pairs the product as last observed with the chosen quantity.
type CartItem struct {
	Product  catalogDomain.Product `json:"product"`
	Quantity int                   `json:"quantity"`
}

func (i CartItem) LineTotal() float64 {
	return i.Product.Price * float64(i.Quantity)
}

type CartView struct {
	Items []CartItem `json:"items"`
	Count int        `json:"count"`
	Total float64    `json:"total"`
}

type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
