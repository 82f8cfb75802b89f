package service

import (
	"context"
	"fmt"
	"io"

	"github.com/ridloal/mushaf-storefront/internal/catalog/domain"
	"github.com/ridloal/mushaf-storefront/internal/catalog/repository"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Products"

var exportHeaders = []string{"ID", "Name", "Type", "Price", "Stock", "Active", "Image", "CreatedAt"}

// ProductService is the admin-side product manager.
type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SaveProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
	SetProductActive(ctx context.Context, productID string, active bool) error
	ExportProducts(ctx context.Context, w io.Writer) error
}

type productServiceImpl struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productServiceImpl{repo: repo}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListAllProducts(ctx)
}

func (s *productServiceImpl) SaveProduct(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product, err := s.repo.UpsertProduct(ctx, in)
	if err != nil {
		logger.Error("Svc.SaveProduct: repo error", err, logger.Fields{"product_id": in.ID})
		return nil, err
	}
	if in.ID == "" {
		logger.Info("Product %s (%s) created", product.ID, product.Name)
	} else {
		logger.Info("Product %s updated", product.ID)
	}
	return product, nil
}

func (s *productServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.repo.DeleteProduct(ctx, productID)
}

func (s *productServiceImpl) SetProductActive(ctx context.Context, productID string, active bool) error {
	return s.repo.SetProductActive(ctx, productID, active)
}

// ExportProducts writes every product, active or not, as an xlsx workbook.
func (s *productServiceImpl) ExportProducts(ctx context.Context, w io.Writer) error {
	products, err := s.repo.ListAllProducts(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name export sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for i, p := range products {
		image := ""
		if p.ImageURL != nil {
			image = *p.ImageURL
		}
		row := []interface{}{
			p.ID, p.Name, string(p.Category), p.Price, p.StockQuantity, p.IsActive, image,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write export row for product %s: %w", p.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		logger.Error("Svc.ExportProducts: failed to write workbook", err)
		return err
	}
	return nil
}
