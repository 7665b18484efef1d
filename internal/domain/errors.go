package domain

import "errors"

// Errors shared by the ledger, catalog, cart and checkout
var (
	ErrUnknownProduct    = errors.New("unknown product")
	ErrUnknownTier       = errors.New("unknown tier")
	ErrInvalidQuantity   = errors.New("quantity must be greater than 0")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartCheckedOut    = errors.New("cart is already checked out")
)
