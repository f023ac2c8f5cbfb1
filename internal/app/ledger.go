package app

import (
	"sort"

	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

// Sales returns the ledger in insertion order.
func (s *Session) Sales() []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Sale, len(s.state.Sales))
	copy(out, s.state.Sales)
	return out
}

func (s *Session) appendSaleLocked(sale domain.Sale) error {
	for _, existing := range s.state.Sales {
		if existing.ID == sale.ID {
			return domain.ErrSaleExists
		}
	}
	s.state.Sales = append(s.state.Sales, sale)
	return nil
}

// ImportSales appends a batch of restored sales. All-or-nothing: a
// duplicate ID anywhere in the batch rejects the whole import. Admin-gated.
func (s *Session) ImportSales(sales []domain.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}

	seen := make(map[string]struct{}, len(s.state.Sales)+len(sales))
	for _, existing := range s.state.Sales {
		seen[existing.ID] = struct{}{}
	}
	for _, sale := range sales {
		if _, dup := seen[sale.ID]; dup {
			return domain.ErrSaleExists
		}
		seen[sale.ID] = struct{}{}
	}

	s.state.Sales = append(s.state.Sales, sales...)
	s.persistLocked()
	return nil
}

// DeleteSale removes exactly the matching record, leaving the order of the
// rest unchanged. Unknown IDs are a no-op. Irreversible. Admin-gated.
func (s *Session) DeleteSale(saleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}

	for i, sale := range s.state.Sales {
		if sale.ID == saleID {
			s.state.Sales = append(s.state.Sales[:i], s.state.Sales[i+1:]...)
			s.persistLocked()
			return nil
		}
	}
	return nil
}

// ClearSales empties the ledger. Irreversible. Admin-gated.
func (s *Session) ClearSales() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unlocked {
		return domain.ErrAuthFailed
	}
	s.state.Sales = nil
	s.persistLocked()
	return nil
}

type ProductStat struct {
	Name     string
	Category string
	Quantity int
	Revenue  money.Money
}

type CategoryStat struct {
	Category string
	Revenue  money.Money
}

// LedgerStats is derived from the current ledger contents on every call;
// nothing here is cached.
type LedgerStats struct {
	Count        int
	TotalRevenue money.Money
	CardRevenue  money.Money
	CashRevenue  money.Money
	Products     []ProductStat
	Categories   []CategoryStat
}

// Stats recomputes aggregate revenue figures over the ledger. Card plus
// cash always equals the total exactly.
func (s *Session) Stats() LedgerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := LedgerStats{
		Count:        len(s.state.Sales),
		TotalRevenue: money.Zero(),
		CardRevenue:  money.Zero(),
		CashRevenue:  money.Zero(),
	}

	byProduct := make(map[string]*ProductStat)
	byCategory := make(map[string]money.Money)

	for _, sale := range s.state.Sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(sale.Total)
		switch sale.PaymentMethod {
		case domain.PaymentCash:
			stats.CashRevenue = stats.CashRevenue.Add(sale.Total)
		default:
			stats.CardRevenue = stats.CardRevenue.Add(sale.Total)
		}

		for _, item := range sale.Items {
			revenue := item.Subtotal()

			ps, ok := byProduct[item.Name]
			if !ok {
				ps = &ProductStat{Name: item.Name, Category: item.Category, Revenue: money.Zero()}
				byProduct[item.Name] = ps
			}
			ps.Quantity += item.Quantity
			ps.Revenue = ps.Revenue.Add(revenue)

			cat, ok := byCategory[item.Category]
			if !ok {
				cat = money.Zero()
			}
			byCategory[item.Category] = cat.Add(revenue)
		}
	}

	stats.Products = make([]ProductStat, 0, len(byProduct))
	for _, ps := range byProduct {
		stats.Products = append(stats.Products, *ps)
	}
	sort.Slice(stats.Products, func(i, j int) bool {
		if cmp := stats.Products[i].Revenue.Cmp(stats.Products[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return stats.Products[i].Name < stats.Products[j].Name
	})

	stats.Categories = make([]CategoryStat, 0, len(byCategory))
	for category, revenue := range byCategory {
		stats.Categories = append(stats.Categories, CategoryStat{Category: category, Revenue: revenue})
	}
	sort.Slice(stats.Categories, func(i, j int) bool {
		if cmp := stats.Categories[i].Revenue.Cmp(stats.Categories[j].Revenue); cmp != 0 {
			return cmp > 0
		}
		return stats.Categories[i].Category < stats.Categories[j].Category
	})

	return stats
}
