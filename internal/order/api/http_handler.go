package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/ridloal/mushaf-storefront/internal/order/repository"
	"github.com/ridloal/mushaf-storefront/internal/order/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(os service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// RegisterRoutes mounts admin order management; the group must already be access-gated.
func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orderRoutes := router.Group("/orders")
	{
		orderRoutes.GET("", h.ListOrders)
		orderRoutes.GET("/stats", h.Stats)
		orderRoutes.PATCH("/:id/status", h.UpdateStatus)
		orderRoutes.DELETE("/:id", h.DeleteOrder)
	}
}

func (h *OrderHandler) bindFilter(c *gin.Context) (domain.OrderFilter, bool) {
	var filter domain.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + err.Error()})
		return filter, false
	}
	return filter, true
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, "ListOrders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Stats(c *gin.Context) {
	filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	stats, err := h.orderService.Stats(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, "Stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req domain.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	if err := h.orderService.UpdateOrderStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		h.writeError(c, "UpdateStatus", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
}

// DeleteOrder requires ?confirm=true; deletion cannot be undone.
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": "Delete this order? This cannot be undone. Repeat with confirm=true."})
		return
	}
	if err := h.orderService.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, "DeleteOrder", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

func (h *OrderHandler) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidOrderStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(op+" Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
