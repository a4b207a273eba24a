package checkout

import (
	"errors"
	"fmt"
)

// Validation failures happen before any remote call and are recoverable by the
// user correcting input.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingContact = errors.New("contact name and phone are required")
	ErrInFlight       = errors.New("checkout already in progress")
)

// OrderCreateError: the order row was not created, nothing was written.
type OrderCreateError struct{ Err error }

func (e *OrderCreateError) Error() string { return fmt.Sprintf("create order: %v", e.Err) }
func (e *OrderCreateError) Unwrap() error { return e.Err }

// OrderItemsError: the order row exists but its items insert failed. The
// pending order is left in place; there is no automatic compensation.
type OrderItemsError struct {
	OrderID string
	Err     error
}

func (e *OrderItemsError) Error() string {
	return fmt.Sprintf("save items for order %s: %v", e.OrderID, e.Err)
}
func (e *OrderItemsError) Unwrap() error { return e.Err }
