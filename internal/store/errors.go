package store

import (
	"errors"
	"fmt"
)

// Sentinel errors the handlers translate into HTTP responses.
var (
	ErrNotFound            = errors.New("record not found")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrCartItemNotFound    = errors.New("item not found in cart")
	ErrAlreadyPaid         = errors.New("order is already paid")
	ErrCircularCategory    = errors.New("cannot set parent: this would create a circular reference")
	ErrCategoryHasChildren = errors.New("cannot delete category with children")
	ErrParentNotFound      = errors.New("parent category not found")
)

// InsufficientStockError names the product that blocked a checkout or
// cart mutation. The whole operation rolls back when it is returned.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q", e.ProductName)
}
