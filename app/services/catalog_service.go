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

// CatalogService handles category and product CRUD. Deletes cascade through
// the Category→Product→SaleItem chain inside a single transaction, and every
// sale that lost items gets its total recomputed afterwards.
type CatalogService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	saleItemRepo repositories.SaleItemRepositoryImpl
	totals       *TotalsService
	logger       *zap.Logger
}

func NewCatalogService(
	db *gorm.DB,
	categoryRepo repositories.CategoryRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	saleItemRepo repositories.SaleItemRepositoryImpl,
	totals *TotalsService,
	logger *zap.Logger,
) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		db:           db,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		saleItemRepo: saleItemRepo,
		totals:       totals,
		logger:       logger,
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetWithProducts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id, name string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes the category, its products and every sale item that
// referenced those products, in one transaction. Totals of the affected sales
// are recomputed once the delete has committed.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	products, err := s.productRepo.GetByCategoryID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list category products: %w", err)
	}
	productIDs := make([]string, 0, len(products))
	for _, product := range products {
		productIDs = append(productIDs, product.ID)
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Collected on the delete's own transaction so an item added after an
	// earlier read cannot slip out of the recompute set.
	saleIDs, err := s.saleItemRepo.GetSaleIDsByProductIDs(ctx, tx, productIDs)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to collect affected sales: %w", err)
	}

	if err := s.saleItemRepo.DeleteByProductIDs(ctx, tx, productIDs); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete sale items: %w", err)
	}
	for _, productID := range productIDs {
		if err := s.productRepo.Delete(ctx, tx, productID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to delete product %s: %w", productID, err)
		}
	}
	if err := s.categoryRepo.Delete(ctx, tx, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit category delete: %w", err)
	}

	s.logger.Info("category deleted",
		zap.String("category_id", id),
		zap.Int("products", len(productIDs)),
		zap.Int("affected_sales", len(saleIDs)),
	)

	return s.recomputeSales(ctx, saleIDs)
}

func (s *CatalogService) CreateProduct(ctx context.Context, name string, unitPrice decimal.Decimal, categoryID, sku string, stockQuantity int) (*models.Product, error) {
	if unitPrice.IsNegative() {
		return nil, ErrInvalidUnitPrice
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	if err := s.checkSkuAvailable(ctx, sku, ""); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          name,
		UnitPrice:     unitPrice.Round(moneyPlaces),
		CategoryID:    categoryID,
		Sku:           sku,
		StockQuantity: stockQuantity,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("product created", zap.String("product_id", product.ID), zap.String("sku", sku))
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id, name string, unitPrice decimal.Decimal, categoryID, sku string, stockQuantity int) (*models.Product, error) {
	if unitPrice.IsNegative() {
		return nil, ErrInvalidUnitPrice
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if categoryID != "" && categoryID != product.CategoryID {
		category, err := s.categoryRepo.GetByID(ctx, categoryID)
		if err != nil {
			return nil, fmt.Errorf("failed to get category: %w", err)
		}
		if category == nil {
			return nil, ErrCategoryNotFound
		}
		product.CategoryID = categoryID
		product.Category = nil
	}

	if sku != "" && sku != product.Sku {
		if err := s.checkSkuAvailable(ctx, sku, id); err != nil {
			return nil, err
		}
		product.Sku = sku
	}

	product.Name = name
	product.UnitPrice = unitPrice.Round(moneyPlaces)
	product.StockQuantity = stockQuantity
	product.Category = nil

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// DeleteProduct removes the product and its sale items in one transaction,
// then recomputes the totals of every sale that referenced it.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	saleIDs, err := s.saleItemRepo.GetSaleIDsByProductIDs(ctx, tx, []string{id})
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to collect affected sales: %w", err)
	}

	if err := s.saleItemRepo.DeleteByProductIDs(ctx, tx, []string{id}); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete sale items: %w", err)
	}
	if err := s.productRepo.Delete(ctx, tx, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit product delete: %w", err)
	}

	s.logger.Info("product deleted", zap.String("product_id", id), zap.Int("affected_sales", len(saleIDs)))

	return s.recomputeSales(ctx, saleIDs)
}

func (s *CatalogService) checkSkuAvailable(ctx context.Context, sku, selfID string) error {
	existing, err := s.productRepo.GetBySku(ctx, sku)
	if err != nil {
		return fmt.Errorf("failed to check sku: %w", err)
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("%w: %q", ErrDuplicateSku, sku)
	}
	return nil
}

func (s *CatalogService) recomputeSales(ctx context.Context, saleIDs []string) error {
	for _, saleID := range saleIDs {
		unlock := s.totals.LockSale(saleID)
		_, err := s.totals.RecomputeTotal(ctx, saleID)
		unlock()
		if err != nil {
			s.logger.Error("sale total left stale after cascade delete",
				zap.String("sale_id", saleID),
				zap.Error(err),
			)
			return &TotalsInconsistencyError{SaleID: saleID, Err: err}
		}
	}
	return nil
}
