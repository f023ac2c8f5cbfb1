package app

import (
	"strings"

	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

// Products returns the catalog in insertion order.
func (s *Session) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Product(nil), s.state.Products...)
}

// AddProduct creates a catalog entry with a fresh ID. Admin-gated.
func (s *Session) AddProduct(name, category string, price money.Money) (domain.Product, error) {
	name, category, err := validateProduct(name, category, price)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.Product{}, domain.ErrAuthFailed
	}

	product := domain.Product{
		ID:       newID(),
		Name:     name,
		Category: category,
		Price:    price,
	}
	s.state.Products = append(s.state.Products, product)
	s.persistLocked()
	return product, nil
}

// UpdateProduct replaces the named fields in place; the product keeps its ID
// and its position in the catalog. Admin-gated.
func (s *Session) UpdateProduct(id, name, category string, price money.Money) (domain.Product, error) {
	name, category, err := validateProduct(name, category, price)
	if err != nil {
		return domain.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.Product{}, domain.ErrAuthFailed
	}

	for i, p := range s.state.Products {
		if p.ID == id {
			p.Name = name
			p.Category = category
			p.Price = price
			s.state.Products[i] = p
			s.persistLocked()
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrProductNotFound
}

// RemoveProduct deletes a catalog entry; removing an unknown ID is a no-op.
// Items already in the cart or in past sales are unaffected. Admin-gated.
func (s *Session) RemoveProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}

	for i, p := range s.state.Products {
		if p.ID == id {
			s.state.Products = append(s.state.Products[:i], s.state.Products[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return nil
}

// ReplaceCatalog swaps in a whole new product list, the bulk-import path.
// All-or-nothing: any invalid row rejects the batch. Admin-gated.
func (s *Session) ReplaceCatalog(products []domain.Product) error {
	cleaned := make([]domain.Product, 0, len(products))
	for _, p := range products {
		name, category, err := validateProduct(p.Name, p.Category, p.Price)
		if err != nil {
			return err
		}
		p.Name = name
		p.Category = category
		if p.ID == "" {
			p.ID = newID()
		}
		cleaned = append(cleaned, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}
	s.state.Products = cleaned
	s.persistLocked()
	return nil
}

func validateProduct(name, category string, price money.Money) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.ErrNameRequired
	}
	if price.IsNegative() {
		return "", "", domain.ErrInvalidPrice
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.DefaultCategory
	}
	return name, category, nil
}
