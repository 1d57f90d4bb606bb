package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dukahub/duka-pos/app/models"
	"github.com/dukahub/duka-pos/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// moneyPlaces is the scale of every stored money and quantity value.
// Multiplication results are rounded half-up back to this scale.
const moneyPlaces = 2

// TotalsService keeps the two derived values consistent: an item's subtotal
// (quantity * unit price) and a sale's total (sum of its items' subtotals).
// It never reaches into the item lifecycle on its own; SaleService and
// CatalogService call it after each mutation.
type TotalsService struct {
	productRepo  repositories.ProductRepositoryImpl
	saleRepo     repositories.SaleRepositoryImpl
	saleItemRepo repositories.SaleItemRepositoryImpl
	logger       *zap.Logger

	saleLocks sync.Map
}

func NewTotalsService(
	productRepo repositories.ProductRepositoryImpl,
	saleRepo repositories.SaleRepositoryImpl,
	saleItemRepo repositories.SaleItemRepositoryImpl,
	logger *zap.Logger,
) *TotalsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TotalsService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		logger:       logger,
	}
}

// LockSale serializes the item-write-then-recompute sequence for one sale so
// a recomputation always reflects every item write that completed before it
// started. Callers hold the lock across the whole sequence and release it via
// the returned func. Locks for different sales are independent.
func (s *TotalsService) LockSale(saleID string) func() {
	v, _ := s.saleLocks.LoadOrStore(saleID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ForgetSale drops the lock entry for a sale that no longer exists, keeping
// saleLocks from growing with every sale ever deleted. A goroutine still
// waiting on the old mutex proceeds normally and then finds the sale gone.
func (s *TotalsService) ForgetSale(saleID string) {
	s.saleLocks.Delete(saleID)
}

// RecomputeSubtotal resolves the item's product and returns
// quantity * unit_price rounded half-up to 2 decimal places. It has no side
// effects; the caller persists the result as part of the same item write.
func (s *TotalsService) RecomputeSubtotal(ctx context.Context, item *models.SaleItem) (decimal.Decimal, error) {
	product, err := s.productRepo.GetByID(ctx, item.ProductID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
	}
	if product == nil {
		return decimal.Zero, ErrProductNotFound
	}

	return item.Quantity.Mul(product.UnitPrice).Round(moneyPlaces), nil
}

// RecomputeTotal reads the sale's full current item set, sums the subtotals
// (a null subtotal counts as zero) and persists the result onto the sale,
// touching only the total_amount column. Returns the new total.
func (s *TotalsService) RecomputeTotal(ctx context.Context, saleID string) (decimal.Decimal, error) {
	items, err := s.saleItemRepo.GetBySaleID(ctx, saleID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list items for sale %s: %w", saleID, err)
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.SubtotalOrZero())
	}
	total = total.Round(moneyPlaces)

	if err := s.saleRepo.UpdateTotal(ctx, saleID, total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to persist total for sale %s: %w", saleID, err)
	}

	s.logger.Debug("sale total recomputed",
		zap.String("sale_id", saleID),
		zap.String("total", total.StringFixed(moneyPlaces)),
		zap.Int("items", len(items)),
	)

	return total, nil
}

// RecomputeAllTotals is the repair operation for stale totals: it walks every
// sale and re-persists its total from the current item set. Returns the number
// of sales processed.
func (s *TotalsService) RecomputeAllTotals(ctx context.Context) (int, error) {
	saleIDs, err := s.saleRepo.GetAllIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sales: %w", err)
	}

	for _, saleID := range saleIDs {
		if _, err := s.RecomputeTotal(ctx, saleID); err != nil {
			return 0, fmt.Errorf("failed to recompute total for sale %s: %w", saleID, err)
		}
	}

	s.logger.Info("recomputed all sale totals", zap.Int("count", len(saleIDs)))
	return len(saleIDs), nil
}
