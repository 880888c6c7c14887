package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInvalidQuantity     = errors.New("quantity is out of range")
	ErrInvalidPrice        = errors.New("price must be a non-negative amount in whole cents")
	ErrInvalidStatus       = errors.New("invalid trial status")
	ErrInvalidTransition   = errors.New("trial entry is no longer on trial")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrInvalidInput        = errors.New("invalid input")
	ErrValueOutOfRange     = errors.New("value out of range")
)

// ConnectionError reports that the store could not be opened or reached.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("database connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}
