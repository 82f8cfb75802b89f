package service

import (
	"context"
	"sync"

	cartDomain "github.com/ridloal/mushaf-storefront/internal/cart/domain"
	"github.com/ridloal/mushaf-storefront/internal/checkout/domain"
	orderDomain "github.com/ridloal/mushaf-storefront/internal/order/domain"
	"github.com/ridloal/mushaf-storefront/internal/platform/logger"
)

type OrderPlacer interface {
	PlaceGroupedOrder(ctx context.Context, contact orderDomain.ContactFields, items []orderDomain.CreateOrderItemInput) (*orderDomain.OrderGroup, error)
}

// Cart is the part of the session cart checkout reads and mutates. Its lines
// carry the product as of the last catalog reconciliation.
type Cart interface {
	Items() []cartDomain.CartItem
	UpdateQuantity(productID string, quantity int)
	Clear()
}

// CatalogRefresher reloads the catalog and reconciles the cart with it.
type CatalogRefresher interface {
	RefreshCatalog(ctx context.Context)
}

// Submitter drives one session's checkout: idle → validating → submitting →
// succeeded|failed → idle. Only one submission runs at a time.
type Submitter struct {
	cart      Cart
	cartLock  sync.Locker
	placer    OrderPlacer
	refresher CatalogRefresher

	mu      sync.Mutex
	state   domain.State
	form    domain.ContactForm
	lastErr string
	lastOK  string
}

// NewSubmitter wires a submitter. cartLock guards the cart while it is read or
// mutated; pass nil when the cart is not shared. Validation only looks at the
// product state held in the cart and never calls the backend.
func NewSubmitter(cart Cart, cartLock sync.Locker, placer OrderPlacer, refresher CatalogRefresher) *Submitter {
	if cartLock == nil {
		cartLock = &sync.Mutex{}
	}
	return &Submitter{
		cart:      cart,
		cartLock:  cartLock,
		placer:    placer,
		refresher: refresher,
		state:     domain.StateIdle,
	}
}

func (s *Submitter) Status() domain.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Status{State: s.state, Form: s.form, Error: s.lastErr, Success: s.lastOK}
}

// UpdateForm stores the contact form as typed, without validating it.
func (s *Submitter) UpdateForm(form domain.ContactForm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = form
}

// Submit validates the cart and form, then places the order. Validation
// failures are *domain.ValidationError; backend failures are returned as-is.
// The cart is only cleared on success.
func (s *Submitter) Submit(ctx context.Context, form domain.ContactForm) (*domain.Confirmation, error) {
	if !s.begin(form) {
		return nil, domain.ErrSubmissionInProgress
	}

	items, verr := s.validate(form.Trimmed())
	if verr != nil {
		s.finish(domain.StateFailed, verr.Error(), "")
		return nil, verr
	}

	s.setState(domain.StateSubmitting)
	group, err := s.placer.PlaceGroupedOrder(ctx, form.ContactFields(), items)
	if err != nil {
		logger.Error("Checkout: order placement failed", err, logger.Fields{"items": len(items)})
		s.finish(domain.StateFailed, err.Error(), "")
		return nil, err
	}

	// lines added while the order was being placed are cleared as well
	s.cartLock.Lock()
	s.cart.Clear()
	s.cartLock.Unlock()

	s.mu.Lock()
	s.form = domain.ContactForm{}
	s.mu.Unlock()
	s.finish(domain.StateSucceeded, "", domain.SuccessMessage)

	if s.refresher != nil {
		s.refresher.RefreshCatalog(ctx)
	}
	return &domain.Confirmation{Message: domain.SuccessMessage, Order: group}, nil
}

func (s *Submitter) begin(form domain.ContactForm) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateIdle {
		return false
	}
	s.state = domain.StateValidating
	s.form = form
	s.lastErr, s.lastOK = "", ""
	return true
}

func (s *Submitter) setState(state domain.State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// finish records the outcome and returns to idle.
func (s *Submitter) finish(outcome domain.State, errMsg, okMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logger.Info("Checkout finished: %s", outcome)
	s.lastErr, s.lastOK = errMsg, okMsg
	s.state = domain.StateIdle
}

// validate runs the checks in order; the first failure wins. An over-limit
// line is clamped down to the available stock before the error is returned.
func (s *Submitter) validate(form domain.ContactForm) ([]orderDomain.CreateOrderItemInput, *domain.ValidationError) {
	s.cartLock.Lock()
	defer s.cartLock.Unlock()

	lines := s.cart.Items()
	if len(lines) == 0 {
		return nil, domain.CartEmptyError()
	}

	for _, line := range lines {
		if p := line.Product; !p.IsActive || p.StockQuantity < 1 {
			return nil, domain.UnavailableError(p.ID, p.Name)
		}
	}

	for _, line := range lines {
		if p := line.Product; line.Quantity > p.StockQuantity {
			s.cart.UpdateQuantity(p.ID, p.StockQuantity)
			return nil, domain.OverLimitError(p.ID, p.Name, p.StockQuantity)
		}
	}

	if !domain.ValidPhone(form.Phone) {
		return nil, domain.InvalidPhoneError()
	}

	for _, f := range []struct{ name, value string }{
		{"name", form.Name}, {"city", form.City}, {"address", form.Address},
	} {
		if f.value == "" {
			return nil, domain.MissingFieldError(f.name)
		}
	}

	items := make([]orderDomain.CreateOrderItemInput, len(lines))
	for i, line := range lines {
		items[i] = orderDomain.CreateOrderItemInput{ProductID: line.Product.ID, Quantity: line.Quantity}
	}
	return items, nil
}
