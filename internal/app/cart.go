package app

import (
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

// Cart returns the in-progress order in first-added-first-shown order.
func (s *Session) Cart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.state.Cart...)
}

func (s *Session) CartTotal() money.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CartTotal(s.state.Cart)
}

// AddToCart adds one unit of a catalog product. A product already in the
// cart has its quantity incremented; the cart never holds two lines for the
// same product ID.
func (s *Session) AddToCart(productID string) (domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var product *domain.Product
	for i := range s.state.Products {
		if s.state.Products[i].ID == productID {
			product = &s.state.Products[i]
			break
		}
	}
	if product == nil {
		return domain.CartItem{}, domain.ErrProductNotFound
	}

	for i, item := range s.state.Cart {
		if item.ID == productID {
			item.Quantity++
			s.state.Cart[i] = item
			s.persistLocked()
			return item, nil
		}
	}

	item := domain.CartItem{Product: *product, Quantity: 1}
	s.state.Cart = append(s.state.Cart, item)
	s.persistLocked()
	return item, nil
}

// SetCartQuantity overwrites a line's quantity in place. Any quantity at or
// below zero removes the line instead; zero and negative quantities never
// persist. Unknown IDs are a no-op, mirroring the original.
func (s *Session) SetCartQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.state.Cart {
		if item.ID != productID {
			continue
		}
		if quantity <= 0 {
			s.state.Cart = append(s.state.Cart[:i], s.state.Cart[i+1:]...)
		} else {
			item.Quantity = quantity
			s.state.Cart[i] = item
		}
		s.persistLocked()
		return
	}
}

// RemoveFromCart drops a line entirely; unknown IDs are a no-op.
func (s *Session) RemoveFromCart(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.state.Cart {
		if item.ID == productID {
			s.state.Cart = append(s.state.Cart[:i], s.state.Cart[i+1:]...)
			s.persistLocked()
			return
		}
	}
}

// ClearCart empties the cart unconditionally.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.state.Cart) == 0 {
		return
	}
	s.state.Cart = nil
	s.persistLocked()
}
