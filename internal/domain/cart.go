package domain

import "github.com/malcano/flea-market-kiosk/internal/money"

// CartItem is a product plus a positive quantity. A cart holds at most one
// item per product ID; a quantity driven to zero removes the item instead.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) Subtotal() money.Money {
	return i.Price.MulInt(i.Quantity)
}

// CartTotal is the exact sum of price times quantity over the items.
func CartTotal(items []CartItem) money.Money {
	total := money.Zero()
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
