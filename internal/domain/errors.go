package domain

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrNameRequired        = errors.New("product name required")
	ErrInvalidPrice        = errors.New("invalid price")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrNoMethodSelected    = errors.New("no payment method selected")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrCheckoutCompleted   = errors.New("checkout already completed")
	ErrCheckoutCancelled   = errors.New("checkout cancelled")
	ErrSaleExists          = errors.New("sale id already exists")
	ErrAuthFailed          = errors.New("authentication failed")
	ErrWeakPin             = errors.New("pin too short")
	ErrImportParse         = errors.New("import data malformed")
	ErrInvalidTheme        = errors.New("invalid theme")
	ErrTitleRequired       = errors.New("title required")
)
