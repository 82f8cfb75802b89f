package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/ridloal/mushaf-storefront/internal/order/repository"
	"github.com/ridloal/mushaf-storefront/internal/order/service"
	"github.com/ridloal/mushaf-storefront/internal/order/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRouter(svc service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewOrderHandler(svc).RegisterRoutes(router.Group("/admin"))
	return router
}

func TestOrderHandler_ListOrders(t *testing.T) {
	mockSvc := new(mocks.MockOrderService)
	router := newRouter(mockSvc)
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mockSvc.On("ListOrders", mock.Anything, mock.MatchedBy(func(f domain.OrderFilter) bool {
		return f.Status == domain.StatusNew && f.Phone == "0301" && f.StartDate != nil && f.StartDate.Equal(start) && f.EndDate == nil
	})).Return([]domain.OrderGroup{{ID: "g1", Status: domain.StatusNew, Items: []domain.OrderItem{}}}, nil).Once()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders?status=new&phone=0301&start_date=2025-06-01", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body []domain.OrderGroup
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "g1", body[0].ID)
	mockSvc.AssertExpectations(t)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		svcErr   error
		callsSvc bool
		wantCode int
	}{
		{"Success", `{"status":"shipped"}`, nil, true, http.StatusOK},
		{"Missing status", `{}`, nil, false, http.StatusBadRequest},
		{"Invalid status", `{"status":"lost"}`, service.ErrInvalidOrderStatus, true, http.StatusBadRequest},
		{"Unknown order", `{"status":"shipped"}`, repository.ErrOrderNotFound, true, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(mocks.MockOrderService)
			router := newRouter(mockSvc)
			if tt.callsSvc {
				mockSvc.On("UpdateOrderStatus", mock.Anything, "o1", mock.AnythingOfType("domain.OrderStatus")).Return(tt.svcErr).Once()
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/admin/orders/o1/status", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func TestOrderHandler_DeleteOrder(t *testing.T) {
	t.Run("Requires confirmation", func(t *testing.T) {
		mockSvc := new(mocks.MockOrderService)
		router := newRouter(mockSvc)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/orders/o1", nil))

		assert.Equal(t, http.StatusPreconditionRequired, w.Code)
		mockSvc.AssertNotCalled(t, "DeleteOrder", mock.Anything, mock.Anything)
	})

	t.Run("Deletes when confirmed", func(t *testing.T) {
		mockSvc := new(mocks.MockOrderService)
		router := newRouter(mockSvc)
		mockSvc.On("DeleteOrder", mock.Anything, "o1").Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/admin/orders/o1?confirm=true", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestOrderHandler_Stats(t *testing.T) {
	mockSvc := new(mocks.MockOrderService)
	router := newRouter(mockSvc)
	mockSvc.On("Stats", mock.Anything, domain.OrderFilter{}).Return(&domain.OrderStats{TotalOrders: 3, TotalRevenue: 900, NewOrders: 1}, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders/stats", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total_orders":3,"total_revenue":900,"new_orders":1,"delivered":0}`, w.Body.String())
}
