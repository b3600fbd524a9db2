package ledger

import (
	"errors"
	"fmt"

	"github.com/mamadbah2/poultrypms/internal/domain/models"
)

// ErrInvalidInput marks malformed or out-of-range request payloads. Callers
// wrap it with detail; handlers match it with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// InsufficientStockError is returned when a feed movement would drive the
// running balance for its type below zero. The write is never performed.
type InsufficientStockError struct {
	FeedType  models.FeedType
	Requested float64
	Available float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient %s feed stock: requested %.2fkg, available %.2fkg", e.FeedType, e.Requested, e.Available)
}

// InsufficientEggStockError is the egg-side counterpart, returned when a sale
// or a production edit would drive the sellable egg balance below zero.
type InsufficientEggStockError struct {
	Requested int
	Available int
}

func (e *InsufficientEggStockError) Error() string {
	return fmt.Sprintf("insufficient egg stock: requested %d, available %d", e.Requested, e.Available)
}
