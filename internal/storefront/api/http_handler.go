package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cartDomain "github.com/ridloal/mushaf-storefront/internal/cart/domain"
	catalogService "github.com/ridloal/mushaf-storefront/internal/catalog/service"
	checkoutDomain "github.com/ridloal/mushaf-storefront/internal/checkout/domain"
	orderService "github.com/ridloal/mushaf-storefront/internal/order/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
	"github.com/ridloal/mushaf-storefront/internal/storefront/session"
)

const sessionKey = "storefront.session"

type SessionHandler struct {
	sessions session.Manager
}

func NewSessionHandler(sm session.Manager) *SessionHandler {
	return &SessionHandler{sessions: sm}
}

func (h *SessionHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/sessions", h.CreateSession)

	s := router.Group("/sessions/:id", h.loadSession)
	{
		s.DELETE("", h.DeleteSession)
		s.GET("/catalog", h.ReloadCatalog)
		s.GET("/cart", h.GetCart)
		s.DELETE("/cart", h.ClearCart)
		s.POST("/cart/items", h.AddItem)
		s.PUT("/cart/items/:productId", h.UpdateQuantity)
		s.DELETE("/cart/items/:productId", h.RemoveItem)
		s.GET("/checkout", h.CheckoutStatus)
		s.PUT("/checkout/form", h.UpdateForm)
		s.POST("/checkout", h.Checkout)
	}
}

type sessionResponse struct {
	ID      string                  `json:"id"`
	Catalog catalogService.Snapshot `json:"catalog"`
	Cart    cartDomain.CartView     `json:"cart"`
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	s := h.sessions.Create(c.Request.Context())
	c.JSON(http.StatusCreated, sessionResponse{ID: s.ID, Catalog: s.Catalog(), Cart: s.Cart()})
}

func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.sessions.Delete(current(c).ID)
	c.Status(http.StatusNoContent)
}

// ReloadCatalog fetches the catalog again and reconciles the cart with it.
// A failed fetch answers 502 with an empty product list and the backend message.
func (h *SessionHandler) ReloadCatalog(c *gin.Context) {
	snap := current(c).Reload(c.Request.Context())
	if snap.Failed() {
		c.JSON(http.StatusBadGateway, snap)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *SessionHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).Cart())
}

func (h *SessionHandler) ClearCart(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).ClearCart())
}

// AddItem never fails for unknown or unavailable products; the cart is
// returned unchanged instead.
func (h *SessionHandler) AddItem(c *gin.Context) {
	var req cartDomain.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, current(c).AddItem(req.ProductID, req.Quantity))
}

func (h *SessionHandler) UpdateQuantity(c *gin.Context) {
	var req cartDomain.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, current(c).UpdateQuantity(c.Param("productId"), req.Quantity))
}

func (h *SessionHandler) RemoveItem(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).RemoveItem(c.Param("productId")))
}

func (h *SessionHandler) CheckoutStatus(c *gin.Context) {
	c.JSON(http.StatusOK, current(c).CheckoutStatus())
}

func (h *SessionHandler) UpdateForm(c *gin.Context) {
	var form checkoutDomain.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}
	s := current(c)
	s.UpdateContactForm(form)
	c.JSON(http.StatusOK, s.CheckoutStatus())
}

func (h *SessionHandler) Checkout(c *gin.Context) {
	var form checkoutDomain.ContactForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	s := current(c)
	confirmation, err := s.Checkout(c.Request.Context(), form)
	if err != nil {
		var verr *checkoutDomain.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr, "cart": s.Cart()})
		case errors.Is(err, checkoutDomain.ErrSubmissionInProgress):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, orderService.ErrOrderGroupFailed), errors.Is(err, orderService.ErrOrderItemsFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		default:
			logger.Error("Checkout Hdl: order placement failed", err, logger.Fields{"session": s.ID})
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, confirmation)
}

func (h *SessionHandler) loadSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Set(sessionKey, s)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
