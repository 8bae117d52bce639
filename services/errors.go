package services

import "errors"

// Business-rule failures surfaced by the lifecycle services. Controllers map
// these onto HTTP statuses; anything else is treated as an internal error.
var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrAlreadyAssigned      = errors.New("already accepted by another admin")
	ErrAlreadyPaid          = errors.New("payment already captured for this order")
	ErrInvalidSignature     = errors.New("payment signature verification failed")
	ErrNotAuthorized        = errors.New("not authorized to update this record")
	ErrTerminalStatus       = errors.New("order is already in a terminal state")
)

// ValidationError reports a missing or malformed request field. The message
// is safe to show to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProductNotFoundError blocks a capture whose snapshot references a product
// the catalog no longer knows.
type ProductNotFoundError struct {
	Title string
}

func (e *ProductNotFoundError) Error() string {
	return "product not found: " + e.Title
}

// InsufficientStockError blocks a capture that would drive a product's stock
// below zero.
type InsufficientStockError struct {
	Title string
}

func (e *InsufficientStockError) Error() string {
	return "insufficient stock for product: " + e.Title
}
