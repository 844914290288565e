package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorization          = errors.New("access restricted to administrators")
)

// ValidationError reports malformed or inconsistent input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError reports a withdrawal line larger than the stock on hand.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d", e.Product, e.Requested, e.Available)
}

// OverAllocationError reports distributed plus returned quantity exceeding what was withdrawn.
type OverAllocationError struct {
	Product   string
	Claimed   int
	Withdrawn int
}

func (e *OverAllocationError) Error() string {
	return fmt.Sprintf("%s: distributed and returned %d, but only %d were withdrawn", e.Product, e.Claimed, e.Withdrawn)
}

// NotFoundError reports a referenced record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func notFound(resource string, id fmt.Stringer) error {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

// uniqueViolation turns a unique index violation into a ValidationError.
// It covers writers that both passed the in-transaction lookup before either committed.
func uniqueViolation(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validationf(format, args...)
	}
	return err
}
