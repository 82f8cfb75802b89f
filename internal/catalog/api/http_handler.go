package api

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/mushaf-storefront/internal/catalog/domain"
	"github.com/ridloal/mushaf-storefront/internal/catalog/repository"
	"github.com/ridloal/mushaf-storefront/internal/catalog/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ProductHandler struct {
	loader         service.CatalogLoader
	productService service.ProductService
}

func NewProductHandler(loader service.CatalogLoader, ps service.ProductService) *ProductHandler {
	return &ProductHandler{loader: loader, productService: ps}
}

// RegisterRoutes mounts the public, read-only catalog.
func (h *ProductHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", h.ListActiveProducts)
}

// RegisterAdminRoutes mounts product management; the group must already be access-gated.
func (h *ProductHandler) RegisterAdminRoutes(router *gin.RouterGroup) {
	productRoutes := router.Group("/products")
	{
		productRoutes.GET("", h.ListProducts)
		productRoutes.GET("/export", h.ExportProducts)
		productRoutes.POST("", h.CreateProduct)
		productRoutes.PUT("/:id", h.UpdateProduct)
		productRoutes.PATCH("/:id/active", h.SetProductActive)
		productRoutes.DELETE("/:id", h.DeleteProduct)
	}
}

func (h *ProductHandler) ListActiveProducts(c *gin.Context) {
	snap := h.loader.Load(c.Request.Context())
	if snap.Failed() {
		c.JSON(http.StatusBadGateway, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		logger.Error("ListProducts Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	in.ID = ""
	h.saveProduct(c, in, http.StatusCreated)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var in domain.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	in.ID = c.Param("id")
	h.saveProduct(c, in, http.StatusOK)
}

func (h *ProductHandler) saveProduct(c *gin.Context, in domain.ProductInput, status int) {
	product, err := h.productService.SaveProduct(c.Request.Context(), in)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("SaveProduct Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(status, product)
}

func (h *ProductHandler) SetProductActive(c *gin.Context) {
	var req domain.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if err := h.productService.SetProductActive(c.Request.Context(), c.Param("id"), *req.IsActive); err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.writeMutationError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) ExportProducts(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.productService.ExportProducts(c.Request.Context(), &buf); err != nil {
		logger.Error("ExportProducts Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export products"})
		return
	}
	c.Header("Content-Disposition", "attachment; filename=products.xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ProductHandler) writeMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrProductInUse):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Product mutation Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidProductName) ||
		errors.Is(err, domain.ErrInvalidProductCategory) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidStock)
}
