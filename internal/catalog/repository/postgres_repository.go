package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ridloal/mushaf-storefront/internal/catalog/domain"
	"github.com/ridloal/mushaf-storefront/internal/platform/database"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by existing orders")
)

type ProductRepository interface {
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
	ListAllProducts(ctx context.Context) ([]domain.Product, error)
	UpsertProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	SetProductActive(ctx context.Context, id string, active bool) error
}

type postgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) ProductRepository {
	return &postgresProductRepository{db: db}
}

const productColumns = `id, name, type, price, image_url, is_active, stock_quantity, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var imageURL sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &imageURL, &p.IsActive, &p.StockQuantity, &p.CreatedAt)
	if imageURL.Valid {
		p.ImageURL = &imageURL.String
	}
	return p, err
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, op, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error(op+": query failed", err)
		return nil, err
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			logger.Error(op+": scan failed", err)
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		logger.Error(op+": rows iteration error", err)
		return nil, err
	}
	return products, nil
}

func (r *postgresProductRepository) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = true ORDER BY type ASC, created_at ASC`
	return r.queryProducts(ctx, "ListActiveProducts", query)
}

func (r *postgresProductRepository) ListAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.queryProducts(ctx, "ListAllProducts", query)
}

// UpsertProduct inserts a product, or updates it in place when the id already exists.
func (r *postgresProductRepository) UpsertProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var imageURL sql.NullString
	if in.ImageURL != nil {
		imageURL = sql.NullString{String: *in.ImageURL, Valid: true}
	}

	var row *sql.Row
	if in.ID == "" {
		query := `INSERT INTO products (name, type, price, image_url, is_active, stock_quantity)
                  VALUES ($1, $2, $3, $4, $5, $6) RETURNING ` + productColumns
		row = r.db.QueryRowContext(ctx, query, in.Name, in.Category, in.Price, imageURL, in.IsActive, in.StockQuantity)
	} else {
		query := `INSERT INTO products (id, name, type, price, image_url, is_active, stock_quantity)
                  VALUES ($1, $2, $3, $4, $5, $6, $7)
                  ON CONFLICT (id) DO UPDATE SET
                      name = EXCLUDED.name,
                      type = EXCLUDED.type,
                      price = EXCLUDED.price,
                      image_url = EXCLUDED.image_url,
                      is_active = EXCLUDED.is_active,
                      stock_quantity = EXCLUDED.stock_quantity
                  RETURNING ` + productColumns
		row = r.db.QueryRowContext(ctx, query, in.ID, in.Name, in.Category, in.Price, imageURL, in.IsActive, in.StockQuantity)
	}

	p, err := scanProduct(row)
	if err != nil {
		logger.Error("UpsertProduct: failed to upsert product", err, logger.Fields{"product_id": in.ID})
		return nil, err
	}
	return &p, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrProductInUse
		}
		if database.IsInvalidInput(err) {
			return ErrProductNotFound
		}
		logger.Error("DeleteProduct: exec failed", err, logger.Fields{"product_id": id})
		return err
	}
	return expectOneRow(res)
}

func (r *postgresProductRepository) SetProductActive(ctx context.Context, id string, active bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		if database.IsInvalidInput(err) {
			return ErrProductNotFound
		}
		logger.Error("SetProductActive: exec failed", err, logger.Fields{"product_id": id, "is_active": active})
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
