package domain

import "errors"

// Business-rule violations surface as one of these sentinels, usually wrapped
// with fmt.Errorf("%w: ...") to name the offending product or store. Callers
// match with errors.Is.
var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrAddressRequired    = errors.New("delivery address required")
	ErrNotFound           = errors.New("not found")
)
