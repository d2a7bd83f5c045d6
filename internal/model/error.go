package model

import "fmt"

// Error codes identifying the kind of a domain failure.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeDuplicateKey      = "DUPLICATE_KEY"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodePersistence       = "PERSISTENCE_ERROR"
)

// DomainError is an expected failure of an inventory operation. Message is
// meant to be shown to the user verbatim.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so callers can test
// errors.Is(err, model.ErrNotFound).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok || t == nil {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation        = NewDomainError(ErrCodeValidation, "Invalid product data")
	ErrNotFound          = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrDuplicateKey      = NewDomainError(ErrCodeDuplicateKey, "Product already exists")
	ErrInsufficientStock = NewDomainError(ErrCodeInsufficientStock, "Insufficient stock")
	ErrPersistence       = NewDomainError(ErrCodePersistence, "Failed to save inventory data")
)

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// NewNotFoundError reports an operation on an unknown SKU.
func NewNotFoundError(sku string) *DomainError {
	return NewDomainError(ErrCodeNotFound, fmt.Sprintf("Product with SKU '%s' not found", sku))
}

// NewDuplicateKeyError reports an explicit SKU collision on create.
func NewDuplicateKeyError(sku string) *DomainError {
	return NewDomainError(ErrCodeDuplicateKey, fmt.Sprintf("Product with SKU '%s' already exists", sku))
}

// NewInsufficientStockError reports a deduction larger than the stock on hand.
func NewInsufficientStockError(available, requested int) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock,
		fmt.Sprintf("Insufficient stock. Available: %d, Requested: %d", available, requested))
}

// NewPersistenceError reports an I/O or serialisation failure.
func NewPersistenceError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodePersistence,
		Message: message,
		Err:     err,
	}
}
