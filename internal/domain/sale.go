package domain

import (
	"time"

	"github.com/malcano/flea-market-kiosk/internal/money"
)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCard || m == PaymentCash
}

// Sale is an immutable record of a completed checkout. Items is a snapshot
// copy taken at checkout time; later catalog or cart edits never alter it.
type Sale struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	Items          []CartItem    `json:"items"`
	Total          money.Money   `json:"total"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	AmountReceived money.Money   `json:"amountReceived"`
	Change         money.Money   `json:"change"`
}
