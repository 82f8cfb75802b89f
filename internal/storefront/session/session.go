package session

import (
	"context"
	"sync"
	"time"

	cartDomain "github.com/ridloal/mushaf-storefront/internal/cart/domain"
	cartService "github.com/ridloal/mushaf-storefront/internal/cart/service"
	catalogService "github.com/ridloal/mushaf-storefront/internal/catalog/service"
	checkoutDomain "github.com/ridloal/mushaf-storefront/internal/checkout/domain"
	checkoutService "github.com/ridloal/mushaf-storefront/internal/checkout/service"
)

// Session is one shopper's storefront state: the catalog they were shown,
// their cart and their checkout. Cart operations are serialized by mu;
// checkout runs outside it so a slow backend does not block reads.
type Session struct {
	ID string

	mu       sync.Mutex
	loader   catalogService.CatalogLoader
	snapshot catalogService.Snapshot
	cart     *cartService.Store
	checkout *checkoutService.Submitter
	lastSeen time.Time
	now      func() time.Time
}

func newSession(id string, loader catalogService.CatalogLoader, placer checkoutService.OrderPlacer, now func() time.Time) *Session {
	s := &Session{
		ID:       id,
		loader:   loader,
		cart:     cartService.NewStore(),
		lastSeen: now(),
		now:      now,
	}
	s.checkout = checkoutService.NewSubmitter(s.cart, &s.mu, placer, s)
	return s
}

// Reload fetches the catalog and reconciles the cart with it. A failed load
// leaves the cart as it was.
func (s *Session) Reload(ctx context.Context) catalogService.Snapshot {
	snapshot := s.loader.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.snapshot = snapshot
	s.cart.SetCatalog(snapshot.Products)
	return snapshot
}

func (s *Session) RefreshCatalog(ctx context.Context) {
	s.Reload(ctx)
}

func (s *Session) Catalog() catalogService.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.snapshot
}

func (s *Session) Cart() cartDomain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.cart.View()
}

func (s *Session) AddItem(productID string, quantity int) cartDomain.CartView {
	return s.mutate(func(c *cartService.Store) { c.Add(productID, quantity) })
}

func (s *Session) UpdateQuantity(productID string, quantity int) cartDomain.CartView {
	return s.mutate(func(c *cartService.Store) { c.UpdateQuantity(productID, quantity) })
}

func (s *Session) RemoveItem(productID string) cartDomain.CartView {
	return s.mutate(func(c *cartService.Store) { c.Remove(productID) })
}

func (s *Session) ClearCart() cartDomain.CartView {
	return s.mutate(func(c *cartService.Store) { c.Clear() })
}

func (s *Session) Checkout(ctx context.Context, form checkoutDomain.ContactForm) (*checkoutDomain.Confirmation, error) {
	s.mu.Lock()
	s.touch()
	s.mu.Unlock()
	return s.checkout.Submit(ctx, form)
}

func (s *Session) CheckoutStatus() checkoutDomain.Status {
	return s.checkout.Status()
}

func (s *Session) UpdateContactForm(form checkoutDomain.ContactForm) {
	s.checkout.UpdateForm(form)
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *Session) mutate(fn func(*cartService.Store)) cartDomain.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	fn(s.cart)
	return s.cart.View()
}

// touch must be called with mu held.
func (s *Session) touch() {
	s.lastSeen = s.now()
}
