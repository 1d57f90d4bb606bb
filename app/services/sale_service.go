package services

import (
	"context"
	"fmt"

	"github.com/dukahub/duka-pos/app/models"
	"github.com/dukahub/duka-pos/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SaleService owns the sale aggregate: sale CRUD plus the item lifecycle that
// drives the derived totals. Every item mutation follows the same protocol:
// persist the item (with its freshly computed subtotal), then hand the parent
// sale to TotalsService. Recomputations for the same sale are serialized with
// a per-sale lock so a later write can never be overwritten by a stale sum;
// different sales proceed independently.
type SaleService struct {
	db           *gorm.DB
	saleRepo     repositories.SaleRepositoryImpl
	saleItemRepo repositories.SaleItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	totals       *TotalsService
	logger       *zap.Logger
}

func NewSaleService(
	db *gorm.DB,
	saleRepo repositories.SaleRepositoryImpl,
	saleItemRepo repositories.SaleItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	totals *TotalsService,
	logger *zap.Logger,
) *SaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SaleService{
		db:           db,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		productRepo:  productRepo,
		totals:       totals,
		logger:       logger,
	}
}

func (s *SaleService) CreateSale(ctx context.Context, status, paymentMethod string) (*models.Sale, error) {
	if status == "" {
		status = models.SaleStatusPending
	}
	if !models.ValidSaleStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if !models.ValidPaymentMethod(paymentMethod) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, paymentMethod)
	}

	sale := &models.Sale{
		Status:        status,
		TotalAmount:   decimal.Zero,
		PaymentMethod: paymentMethod,
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}

	s.logger.Info("sale created", zap.String("sale_id", sale.ID), zap.String("payment_method", paymentMethod))
	return sale, nil
}

func (s *SaleService) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	return sale, nil
}

// ListSales returns all sales with their items, newest date first.
func (s *SaleService) ListSales(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.saleRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, nil
}

// UpdateSale changes status and/or payment method. Date and total are not
// client-writable: date is fixed at creation and the total only ever comes
// out of a recomputation.
func (s *SaleService) UpdateSale(ctx context.Context, id, status, paymentMethod string) (*models.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	if status != "" {
		if !models.ValidSaleStatus(status) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
		}
		sale.Status = status
	}
	if paymentMethod != "" {
		if !models.ValidPaymentMethod(paymentMethod) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, paymentMethod)
		}
		sale.PaymentMethod = paymentMethod
	}

	if err := s.saleRepo.Update(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	return sale, nil
}

// DeleteSale removes the sale and all its items in one transaction.
func (s *SaleService) DeleteSale(ctx context.Context, id string) error {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return ErrSaleNotFound
	}

	unlock := s.totals.LockSale(id)
	defer unlock()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := s.saleItemRepo.DeleteBySaleID(ctx, tx, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete sale items: %w", err)
	}
	if err := s.saleRepo.Delete(ctx, tx, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit sale delete: %w", err)
	}
	s.totals.ForgetSale(id)

	s.logger.Info("sale deleted", zap.String("sale_id", id))
	return nil
}

// AddItem creates a sale item. The subtotal is computed before the write so
// an unresolvable product rejects the whole operation with no persisted row;
// once the item is durable the parent total is recomputed. When that last
// step fails, the item stays durable and the error is a
// *TotalsInconsistencyError alongside the created item.
func (s *SaleService) AddItem(ctx context.Context, saleID, productID string, quantity decimal.Decimal) (*models.SaleItem, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	unlock := s.totals.LockSale(saleID)
	defer unlock()

	item := &models.SaleItem{
		SaleID:    saleID,
		ProductID: productID,
		Quantity:  quantity.Round(moneyPlaces),
	}

	subtotal, err := s.totals.RecomputeSubtotal(ctx, item)
	if err != nil {
		return nil, err
	}
	item.Subtotal = decimal.NullDecimal{Decimal: subtotal, Valid: true}

	if err := s.saleItemRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to add sale item: %w", err)
	}

	if err := s.recomputeAfterItemWrite(ctx, saleID); err != nil {
		return item, err
	}

	s.logger.Info("sale item added",
		zap.String("sale_id", saleID),
		zap.String("item_id", item.ID),
		zap.String("subtotal", subtotal.StringFixed(moneyPlaces)),
	)
	return item, nil
}

// UpdateItem changes an item's quantity and, optionally, its product. The
// subtotal is recomputed from the new values before the write, and the parent
// total afterwards.
func (s *SaleService) UpdateItem(ctx context.Context, itemID, productID string, quantity decimal.Decimal) (*models.SaleItem, error) {
	if !quantity.IsPositive() {
		return nil, ErrInvalidQuantity
	}

	item, err := s.saleItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale item: %w", err)
	}
	if item == nil {
		return nil, ErrSaleItemNotFound
	}

	unlock := s.totals.LockSale(item.SaleID)
	defer unlock()

	if productID != "" {
		item.ProductID = productID
	}
	item.Quantity = quantity.Round(moneyPlaces)

	subtotal, err := s.totals.RecomputeSubtotal(ctx, item)
	if err != nil {
		return nil, err
	}
	item.Subtotal = decimal.NullDecimal{Decimal: subtotal, Valid: true}
	item.Product = nil

	if err := s.saleItemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update sale item: %w", err)
	}

	if err := s.recomputeAfterItemWrite(ctx, item.SaleID); err != nil {
		return item, err
	}
	return item, nil
}

// DeleteItem removes the item, then recomputes the former parent's total.
func (s *SaleService) DeleteItem(ctx context.Context, itemID string) error {
	item, err := s.saleItemRepo.GetByID(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get sale item: %w", err)
	}
	if item == nil {
		return ErrSaleItemNotFound
	}

	unlock := s.totals.LockSale(item.SaleID)
	defer unlock()

	if err := s.saleItemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete sale item: %w", err)
	}

	if err := s.recomputeAfterItemWrite(ctx, item.SaleID); err != nil {
		return err
	}

	s.logger.Info("sale item deleted", zap.String("sale_id", item.SaleID), zap.String("item_id", itemID))
	return nil
}

func (s *SaleService) GetItem(ctx context.Context, id string) (*models.SaleItem, error) {
	item, err := s.saleItemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale item: %w", err)
	}
	if item == nil {
		return nil, ErrSaleItemNotFound
	}
	return item, nil
}

func (s *SaleService) ListItems(ctx context.Context) ([]models.SaleItem, error) {
	items, err := s.saleItemRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sale items: %w", err)
	}
	return items, nil
}

// recomputeAfterItemWrite runs once the item mutation is durable. A failure
// here leaves a stale parent total, which is a distinct, loggable condition
// rather than a rollback: the repair path is RecomputeAllTotals.
func (s *SaleService) recomputeAfterItemWrite(ctx context.Context, saleID string) error {
	if _, err := s.totals.RecomputeTotal(ctx, saleID); err != nil {
		s.logger.Error("sale total left stale after item write",
			zap.String("sale_id", saleID),
			zap.Error(err),
		)
		return &TotalsInconsistencyError{SaleID: saleID, Err: err}
	}
	return nil
}
