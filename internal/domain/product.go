package domain

import "github.com/malcano/flea-market-kiosk/internal/money"

// DefaultCategory labels products imported without a category.
const DefaultCategory = "General"

// Product is a purchasable catalog entry. ID is opaque, unique and immutable.
type Product struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Category string      `json:"category"`
	Price    money.Money `json:"price"`
}
