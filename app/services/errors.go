package services

import (
	"errors"
	"fmt"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrSaleNotFound     = errors.New("sale not found")
	ErrSaleItemNotFound = errors.New("sale item not found")

	ErrInvalidQuantity      = errors.New("quantity must be greater than zero")
	ErrInvalidUnitPrice     = errors.New("unit price must not be negative")
	ErrInvalidStatus        = errors.New("invalid sale status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrDuplicateSku         = errors.New("sku already in use")
)

// TotalsInconsistencyError reports that an item write was durably applied but
// the parent sale's total could not be re-persisted afterwards. The sale is in
// a recoverable-but-stale state until RecomputeAllTotals (or the next item
// mutation on that sale) runs.
type TotalsInconsistencyError struct {
	SaleID string
	Err    error
}

func (e *TotalsInconsistencyError) Error() string {
	return fmt.Sprintf("sale %s total is stale: %v", e.SaleID, e.Err)
}

func (e *TotalsInconsistencyError) Unwrap() error {
	return e.Err
}
