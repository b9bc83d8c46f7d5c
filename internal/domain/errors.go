package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dispatch pipeline. Handlers map these to HTTP
// status codes; everything else is a server fault.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrRender     = errors.New("render failed")
)

// Validation failure categories. Both wrap ErrValidation so callers can
// match the class or the specific reason.
var (
	ErrMissingCustomerInfo = fmt.Errorf("%w: customer name, email, and phone are required", ErrValidation)
	ErrNoLineItems         = fmt.Errorf("%w: at least one item is required", ErrValidation)
)
