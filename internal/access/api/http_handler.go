package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/mushaf-storefront/internal/access/domain"
	"github.com/ridloal/mushaf-storefront/internal/access/service"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

const claimsKey = "access.claims"

type AccessHandler struct {
	accessService service.AccessService
}

func NewAccessHandler(as service.AccessService) *AccessHandler {
	return &AccessHandler{accessService: as}
}

func (h *AccessHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/login", h.Login)
}

func (h *AccessHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Login: bad request", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	response, err := h.accessService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Login: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	if !h.accessService.IsAdmin(c.Request.Context(), &domain.Claims{UserID: response.User.ID, Role: response.User.Role}) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: admin privileges required"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// RequireAdmin rejects requests without a valid bearer token (401) or whose
// user is not an admin (403).
func (h *AccessHandler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		claims, err := h.accessService.ParseToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		if !h.accessService.IsAdmin(c.Request.Context(), claims) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin privileges required"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAdmin.
func ClaimsFrom(c *gin.Context) (*domain.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*domain.Claims)
	return claims, ok
}
