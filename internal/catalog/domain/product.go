package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Category string

const (
	CategoryFull  Category = "full"
	CategoryPara  Category = "para"
	CategorySurah Category = "surah"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFull, CategoryPara, CategorySurah:
		return true
	}
	return false
}

var (
	ErrInvalidProductName     = errors.New("product name is required")
	ErrInvalidProductCategory = errors.New("product category must be one of full, para, surah")
	ErrInvalidPrice           = errors.New("price must be a valid non-negative number")
	ErrInvalidStock           = errors.New("stock must be a whole non-negative number")
)

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      Category  `json:"type"`
	Price         float64   `json:"price"` // PKR
	ImageURL      *string   `json:"image_url"`
	IsActive      bool      `json:"is_active"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}

// Available reports whether the product can be put in a cart at all.
func (p Product) Available() bool {
	return p.IsActive && p.StockQuantity >= 1
}

// ProductInput is the admin upsert payload. An empty ID creates a new product.
type ProductInput struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Category      Category `json:"type"`
	Price         float64  `json:"price"`
	ImageURL      *string  `json:"image_url"`
	IsActive      bool     `json:"is_active"`
	StockQuantity int      `json:"stock_quantity"`
}

// Normalize trims text fields; a blank image url becomes nil.
func (in *ProductInput) Normalize() {
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	if in.ImageURL != nil {
		url := strings.TrimSpace(*in.ImageURL)
		if url == "" {
			in.ImageURL = nil
		} else {
			in.ImageURL = &url
		}
	}
}

func (in ProductInput) Validate() error {
	if in.Name == "" {
		return ErrInvalidProductName
	}
	if !in.Category.Valid() {
		return fmt.Errorf("%w: got %q", ErrInvalidProductCategory, in.Category)
	}
	if in.Price < 0 || in.Price != in.Price { // NaN check
		return ErrInvalidPrice
	}
	if in.StockQuantity < 0 {
		return ErrInvalidStock
	}
	return nil
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
