package app

import (
	"github.com/malcano/flea-market-kiosk/internal/domain"
	"github.com/malcano/flea-market-kiosk/internal/money"
)

type CheckoutState int

const (
	SelectingMethod CheckoutState = iota
	AwaitingPayment
	Completed
	Cancelled
)

// Checkout is a single checkout attempt over the session's cart:
// SelectingMethod → AwaitingPayment → Completed. A finished or cancelled
// attempt is inert; the next transaction starts a fresh one.
type Checkout struct {
	session  *Session
	state    CheckoutState
	method   domain.PaymentMethod
	received money.Money
	tendered bool
}

// CheckoutResult reports the recorded sale. PersistenceDegraded warns that
// the most recent snapshot write failed; the sale itself is safely part of
// the running session either way.
type CheckoutResult struct {
	Sale                domain.Sale
	PersistenceDegraded bool
}

func (s *Session) BeginCheckout() *Checkout {
	return &Checkout{session: s}
}

func (c *Checkout) State() CheckoutState {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()
	return c.state
}

// SelectMethod moves the attempt to AwaitingPayment. An empty cart refuses
// to leave SelectingMethod. Re-selecting while awaiting payment is allowed
// (the operator changed their mind) and discards any tendered amount.
func (c *Checkout) SelectMethod(method domain.PaymentMethod) error {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if err := c.activeLocked(); err != nil {
		return err
	}
	if !method.Valid() {
		return domain.ErrInvalidMethod
	}
	if len(c.session.state.Cart) == 0 {
		return domain.ErrEmptyCart
	}

	c.method = method
	c.received = money.Zero()
	c.tendered = false
	c.state = AwaitingPayment
	return nil
}

// Tender records the cash received. Only valid while awaiting payment on a
// cash checkout; may be called again to correct the amount before Complete.
func (c *Checkout) Tender(amount money.Money) error {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if err := c.activeLocked(); err != nil {
		return err
	}
	if c.state != AwaitingPayment {
		return domain.ErrNoMethodSelected
	}
	if c.method != domain.PaymentCash {
		return domain.ErrInvalidMethod
	}
	if amount.IsNegative() {
		return domain.ErrInvalidAmount
	}

	c.received = amount
	c.tendered = true
	return nil
}

// Complete converts the cart into a sale. The card path settles instantly
// for the exact total. The cash path requires received >= total; otherwise
// the attempt stays in AwaitingPayment and the cart is untouched. On
// success the sale lands in the ledger, the cart is cleared and a save is
// enqueued, all as one in-memory unit.
func (c *Checkout) Complete() (CheckoutResult, error) {
	s := c.session
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := c.activeLocked(); err != nil {
		return CheckoutResult{}, err
	}
	if c.state != AwaitingPayment {
		return CheckoutResult{}, domain.ErrNoMethodSelected
	}
	if len(s.state.Cart) == 0 {
		return CheckoutResult{}, domain.ErrEmptyCart
	}

	total := domain.CartTotal(s.state.Cart)

	var received, change money.Money
	switch c.method {
	case domain.PaymentCash:
		if !c.tendered || c.received.LessThan(total) {
			return CheckoutResult{}, domain.ErrInsufficientPayment
		}
		received = c.received
		change = c.received.Sub(total)
	default:
		received = total
		change = money.Zero()
	}

	sale := domain.Sale{
		ID:             newID(),
		Timestamp:      s.clock.Now(),
		Items:          append([]domain.CartItem(nil), s.state.Cart...),
		Total:          total,
		PaymentMethod:  c.method,
		AmountReceived: received,
		Change:         change,
	}
	if err := s.appendSaleLocked(sale); err != nil {
		return CheckoutResult{}, err
	}

	s.state.Cart = nil
	c.state = Completed
	s.persistLocked()

	// Hand the caller its own copy of the items so the ledger entry cannot
	// be mutated through the result.
	result := sale
	result.Items = append([]domain.CartItem(nil), sale.Items...)
	return CheckoutResult{
		Sale:                result,
		PersistenceDegraded: s.saver.degraded() != nil,
	}, nil
}

// Cancel abandons the attempt from any non-terminal state without touching
// the cart.
func (c *Checkout) Cancel() error {
	c.session.mu.Lock()
	defer c.session.mu.Unlock()

	if err := c.activeLocked(); err != nil {
		return err
	}
	c.state = Cancelled
	return nil
}

func (c *Checkout) activeLocked() error {
	switch c.state {
	case Completed:
		return domain.ErrCheckoutCompleted
	case Cancelled:
		return domain.ErrCheckoutCancelled
	}
	return nil
}
