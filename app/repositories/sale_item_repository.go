package repositories

import (
	"context"
	"errors"

	"github.com/dukahub/duka-pos/app/models"
	"gorm.io/gorm"
)

type SaleItemRepositoryImpl interface {
	Add(ctx context.Context, item *models.SaleItem) error
	Update(ctx context.Context, item *models.SaleItem) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.SaleItem, error)
	GetAll(ctx context.Context) ([]models.SaleItem, error)
	GetBySaleID(ctx context.Context, saleID string) ([]models.SaleItem, error)
	GetSaleIDsByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) ([]string, error)
	DeleteBySaleID(ctx context.Context, tx *gorm.DB, saleID string) error
	DeleteByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error
}

type SaleItemRepository struct {
	DB *gorm.DB
}

func NewSaleItemRepository(db *gorm.DB) SaleItemRepositoryImpl {
	return &SaleItemRepository{db}
}

func (r *SaleItemRepository) Add(ctx context.Context, item *models.SaleItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *SaleItemRepository) Update(ctx context.Context, item *models.SaleItem) error {
	return r.DB.WithContext(ctx).Save(item).Error
}

func (r *SaleItemRepository) Delete(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Delete(&models.SaleItem{}, "id = ?", id).Error
}

func (r *SaleItemRepository) GetByID(ctx context.Context, id string) (*models.SaleItem, error) {
	var item models.SaleItem
	err := r.DB.WithContext(ctx).Preload("Product").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *SaleItemRepository) GetAll(ctx context.Context) ([]models.SaleItem, error) {
	var items []models.SaleItem
	if err := r.DB.WithContext(ctx).Preload("Product").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *SaleItemRepository) GetBySaleID(ctx context.Context, saleID string) ([]models.SaleItem, error) {
	var items []models.SaleItem
	if err := r.DB.WithContext(ctx).Where("sale_id = ?", saleID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// GetSaleIDsByProductIDs returns the distinct sales touched by any item that
// references one of the given products. Cascade deletes run it on their own
// transaction, right before the items go, so the collected set matches what
// the delete removes and every affected total gets recomputed afterwards.
func (r *SaleItemRepository) GetSaleIDsByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) ([]string, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var saleIDs []string
	err := tx.WithContext(ctx).
		Model(&models.SaleItem{}).
		Where("product_id IN ?", productIDs).
		Distinct().
		Pluck("sale_id", &saleIDs).Error
	if err != nil {
		return nil, err
	}
	return saleIDs, nil
}

func (r *SaleItemRepository) DeleteBySaleID(ctx context.Context, tx *gorm.DB, saleID string) error {
	return tx.WithContext(ctx).Where("sale_id = ?", saleID).Delete(&models.SaleItem{}).Error
}

func (r *SaleItemRepository) DeleteByProductIDs(ctx context.Context, tx *gorm.DB, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Where("product_id IN ?", productIDs).Delete(&models.SaleItem{}).Error
}
