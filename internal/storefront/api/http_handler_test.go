package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	cartDomain "github.com/ridloal/mushaf-storefront/internal/cart/domain"
	catalogDomain "github.com/ridloal/mushaf-storefront/internal/catalog/domain"
	catalogService "github.com/ridloal/mushaf-storefront/internal/catalog/service"
	catalogMocks "github.com/ridloal/mushaf-storefront/internal/catalog/service/mocks"
	orderDomain "github.com/ridloal/mushaf-storefront/internal/order/domain"
	orderService "github.com/ridloal/mushaf-storefront/internal/order/service"
	orderMocks "github.com/ridloal/mushaf-storefront/internal/order/service/mocks"
	"github.com/ridloal/mushaf-storefront/internal/storefront/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const validContact = `{"name":"Hamza","phone":"0333-7654321","city":"Multan","address":"House 7, Street 2"}`

type harness struct {
	router *gin.Engine
	loader *catalogMocks.MockCatalogLoader
	placer *orderMocks.MockOrderService
}

func newHarness(products ...catalogDomain.Product) *harness {
	gin.SetMode(gin.TestMode)
	h := &harness{loader: new(catalogMocks.MockCatalogLoader), placer: new(orderMocks.MockOrderService)}
	h.loader.On("Load", mock.Anything).Return(catalogService.Snapshot{Products: products, LoadedAt: time.Now()})
	h.router = gin.New()
	NewSessionHandler(session.NewManager(h.loader, h.placer)).RegisterRoutes(h.router.Group("/api/v1"))
	return h
}

func (h *harness) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) newSession(t *testing.T) string {
	t.Helper()
	w := h.do(t, http.MethodPost, "/api/v1/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func decodeCart(t *testing.T, w *httptest.ResponseRecorder) cartDomain.CartView {
	t.Helper()
	var view cartDomain.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func para(id string, stock int) catalogDomain.Product {
	return catalogDomain.Product{ID: id, Name: "Para " + id, Category: catalogDomain.CategoryPara, Price: 300, IsActive: true, StockQuantity: stock}
}

func TestSessionHandler_UnknownSession(t *testing.T) {
	h := newHarness()

	w := h.do(t, http.MethodGet, "/api/v1/sessions/does-not-exist/cart", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionHandler_CartFlow(t *testing.T) {
	h := newHarness(para("1", 4), para("2", 2))
	id := h.newSession(t)
	base := fmt.Sprintf("/api/v1/sessions/%s/cart", id)

	view := decodeCart(t, h.do(t, http.MethodPost, base+"/items", `{"product_id":"1","quantity":3}`))
	assert.Equal(t, 3, view.Items[0].Quantity)

	view = decodeCart(t, h.do(t, http.MethodPost, base+"/items", `{"product_id":"1","quantity":3}`))
	assert.Equal(t, 4, view.Items[0].Quantity, "accumulated then clamped")

	view = decodeCart(t, h.do(t, http.MethodPost, base+"/items", `{"product_id":"unknown"}`))
	assert.Equal(t, 1, view.Count, "unknown product ignored")

	view = decodeCart(t, h.do(t, http.MethodPut, base+"/items/1", `{"quantity":0}`))
	assert.Equal(t, 1, view.Items[0].Quantity)

	view = decodeCart(t, h.do(t, http.MethodPost, base+"/items", `{"product_id":"2","quantity":1}`))
	assert.Equal(t, 2, view.Count)
	assert.Equal(t, 600.0, view.Total)

	view = decodeCart(t, h.do(t, http.MethodDelete, base+"/items/1", ""))
	assert.Equal(t, "2", view.Items[0].Product.ID)

	view = decodeCart(t, h.do(t, http.MethodDelete, base, ""))
	assert.Zero(t, view.Count)

	w := h.do(t, http.MethodPost, base+"/items", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code, "product id required")
}

func TestSessionHandler_Checkout(t *testing.T) {
	t.Run("Places the order", func(t *testing.T) {
		h := newHarness(para("1", 5))
		id := h.newSession(t)
		h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cart/items", `{"product_id":"1","quantity":2}`)
		h.placer.On("PlaceGroupedOrder", mock.Anything, orderDomain.ContactFields{
			CustomerName: "Hamza", Phone: "0333-7654321", City: "Multan", Address: "House 7, Street 2",
		}, []orderDomain.CreateOrderItemInput{{ProductID: "1", Quantity: 2}}).Return(&orderDomain.OrderGroup{ID: "g1", Status: orderDomain.StatusNew}, nil).Once()

		w := h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/checkout", validContact)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Order placed!")
		assert.Zero(t, decodeCart(t, h.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/cart", "")).Count)
		h.placer.AssertExpectations(t)
		h.loader.AssertNumberOfCalls(t, "Load", 2)
	})

	t.Run("Empty cart", func(t *testing.T) {
		h := newHarness(para("1", 5))
		id := h.newSession(t)

		w := h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/checkout", validContact)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "cart empty")
		h.placer.AssertNotCalled(t, "PlaceGroupedOrder", mock.Anything, mock.Anything, mock.Anything)
		h.loader.AssertNumberOfCalls(t, "Load", 1)
	})

	t.Run("Reload lowers the cart to current stock", func(t *testing.T) {
		h := newHarness(para("1", 10))
		id := h.newSession(t)
		h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cart/items", `{"product_id":"1","quantity":10}`)
		h.loader.ExpectedCalls = nil
		h.loader.On("Load", mock.Anything).Return(catalogService.Snapshot{Products: []catalogDomain.Product{para("1", 3)}})
		require.Equal(t, http.StatusOK, h.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/catalog", "").Code)
		h.placer.On("PlaceGroupedOrder", mock.Anything, mock.Anything, []orderDomain.CreateOrderItemInput{{ProductID: "1", Quantity: 3}}).
			Return(&orderDomain.OrderGroup{ID: "g1"}, nil).Once()

		w := h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/checkout", validContact)

		assert.Equal(t, http.StatusCreated, w.Code)
		h.placer.AssertExpectations(t)
	})

	t.Run("Invalid phone", func(t *testing.T) {
		h := newHarness(para("1", 5))
		id := h.newSession(t)
		h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cart/items", `{"product_id":"1","quantity":1}`)

		w := h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/checkout", `{"name":"Hamza","phone":"12345","city":"Multan","address":"House 7"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"field":"phone"`)
		assert.Equal(t, 1, decodeCart(t, h.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/cart", "")).Count)
		h.loader.AssertNumberOfCalls(t, "Load", 1)
	})

	t.Run("Backend failure keeps cart", func(t *testing.T) {
		h := newHarness(para("1", 5))
		id := h.newSession(t)
		h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/cart/items", `{"product_id":"1","quantity":1}`)
		h.placer.On("PlaceGroupedOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, fmt.Errorf("%w: %v", orderService.ErrOrderItemsFailed, errors.New("fk violation"))).Once()

		w := h.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/checkout", validContact)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, 1, decodeCart(t, h.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/cart", "")).Count)
		status := h.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/checkout", "")
		assert.Contains(t, status.Body.String(), `"name":"Hamza"`)
	})
}

func TestSessionHandler_UpdateForm(t *testing.T) {
	h := newHarness()
	id := h.newSession(t)

	w := h.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/checkout/form", `{"name":"Ham"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"state":"idle"`)
	assert.Contains(t, w.Body.String(), `"name":"Ham"`)
}

func TestSessionHandler_DeleteSession(t *testing.T) {
	h := newHarness()
	id := h.newSession(t)

	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, "/api/v1/sessions/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, h.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/cart", "").Code)
}
