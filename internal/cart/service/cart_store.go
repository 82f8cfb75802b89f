package service

import (
	"github.com/ridloal/mushaf-storefront/internal/cart/domain"
	catalogDomain "github.com/ridloal/mushaf-storefront/internal/catalog/domain"
)

// Store is the in-memory cart of a single storefront session. It keeps
// insertion order and at most one item per product id. Store is not safe for
// concurrent use; the owning session serializes access.
type Store struct {
	catalog []catalogDomain.Product
	items   []domain.CartItem
}

func NewStore() *Store {
	return &Store{}
}

// SetCatalog installs a fresh catalog snapshot and reconciles the cart against it.
// An empty snapshot (e.g. a failed load) leaves the cart untouched.
func (s *Store) SetCatalog(products []catalogDomain.Product) {
	s.catalog = products
	if len(products) == 0 {
		return
	}
	s.Reconcile(products)
}

// Reconcile drops items whose product vanished, was deactivated or ran out
// of stock, and clamps the rest to [1, stock] with the fresh product snapshot.
func (s *Store) Reconcile(products []catalogDomain.Product) {
	byID := make(map[string]catalogDomain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	kept := s.items[:0]
	for _, item := range s.items {
		fresh, ok := byID[item.Product.ID]
		if !ok || !fresh.Available() {
			continue
		}
		kept = append(kept, domain.CartItem{
			Product:  fresh,
			Quantity: clamp(item.Quantity, 1, fresh.StockQuantity),
		})
	}
	s.items = kept
}

// Add puts quantity units of the product in the cart, accumulating onto an
// existing line. Unknown, inactive or out-of-stock products are ignored.
func (s *Store) Add(productID string, quantity int) {
	product, ok := s.fromCatalog(productID)
	if !ok || !product.Available() {
		return
	}

	safeQuantity := max(1, quantity)
	if i := s.indexOf(productID); i >= 0 {
		s.items[i] = domain.CartItem{
			Product:  product,
			Quantity: min(s.items[i].Quantity+safeQuantity, product.StockQuantity),
		}
		return
	}
	s.items = append(s.items, domain.CartItem{
		Product:  product,
		Quantity: min(safeQuantity, product.StockQuantity),
	})
}

// UpdateQuantity sets the quantity of an existing line, clamped to
// [1, stock]. A product with zero stock still gets an upper bound of 1.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	product, ok := s.lookup(productID)
	if !ok {
		return
	}

	upper := product.StockQuantity
	if upper <= 0 {
		upper = 1
	}
	safeQuantity := clamp(quantity, 1, upper)
	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i] = domain.CartItem{Product: product, Quantity: safeQuantity}
		}
	}
}

func (s *Store) Remove(productID string) {
	if i := s.indexOf(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
}

func (s *Store) Clear() {
	s.items = nil
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Count() int {
	return len(s.items)
}

func (s *Store) Total() float64 {
	var total float64
	for _, item := range s.items {
		total += item.LineTotal()
	}
	return total
}

func (s *Store) View() domain.CartView {
	return domain.CartView{Items: s.Items(), Count: s.Count(), Total: s.Total()}
}

func (s *Store) fromCatalog(productID string) (catalogDomain.Product, bool) {
	for _, p := range s.catalog {
		if p.ID == productID {
			return p, true
		}
	}
	return catalogDomain.Product{}, false
}

// lookup prefers the live catalog and falls back to the snapshot held in the cart.
func (s *Store) lookup(productID string) (catalogDomain.Product, bool) {
	if p, ok := s.fromCatalog(productID); ok {
		return p, true
	}
	if i := s.indexOf(productID); i >= 0 {
		return s.items[i].Product, true
	}
	return catalogDomain.Product{}, false
}

func (s *Store) indexOf(productID string) int {
	for i, item := range s.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
