package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors. Handlers translate these to HTTP statuses via HTTPStatus;
// core functions return them untouched so callers can branch with
// errors.Is / errors.As.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrPaymentNotFound  = errors.New("payment not found")
	ErrShipmentNotFound = errors.New("shipment not found")
	ErrReviewNotFound   = errors.New("review not found")

	ErrCartEmpty              = errors.New("cart is empty")
	ErrInvalidQuantity        = errors.New("quantity must be at least 1")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrTotalMismatch          = errors.New("supplied total does not match computed order total")
	ErrAmountMismatch         = errors.New("payment amount does not match order total")
	ErrOrderNotPaid           = errors.New("order has not been paid")
	ErrShipmentAlreadyExists  = errors.New("shipment already exists for this order")
	ErrPaymentAlreadyRecorded = errors.New("a completed payment is already recorded for this order")
	ErrCategoryInUse          = errors.New("category still has products")
	ErrEmailRegistered        = errors.New("email already registered")

	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
)

// InsufficientStockError aborts a checkout whose requested quantity exceeds
// the live stock of a product. Available is the stock observed inside the
// checkout transaction.
type InsufficientStockError struct {
	ProductID   uint
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q: requested %d, available %d",
		e.ProductName, e.Requested, e.Available)
}

// InvalidTransitionError rejects an illegal status change on an order or a
// shipment.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// HTTPStatus maps a domain error to its response code. Unknown errors are
// internal failures.
func HTTPStatus(err error) int {
	var stockErr *InsufficientStockError
	var transitionErr *InvalidTransitionError

	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrCategoryNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrCartItemNotFound),
		errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrPaymentNotFound),
		errors.Is(err, ErrShipmentNotFound),
		errors.Is(err, ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCartEmpty),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidRating),
		errors.Is(err, ErrTotalMismatch),
		errors.Is(err, ErrAmountMismatch),
		errors.Is(err, ErrEmailRegistered):
		return http.StatusBadRequest
	case errors.Is(err, ErrOrderNotPaid),
		errors.Is(err, ErrShipmentAlreadyExists),
		errors.Is(err, ErrPaymentAlreadyRecorded),
		errors.Is(err, ErrCategoryInUse):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &stockErr), errors.As(err, &transitionErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
