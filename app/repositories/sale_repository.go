package repositories

import (
	"context"
	"errors"

	"github.com/dukahub/duka-pos/app/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleRepositoryImpl interface {
	Create(ctx context.Context, sale *models.Sale) error
	GetByID(ctx context.Context, id string) (*models.Sale, error)
	GetWithItems(ctx context.Context, id string) (*models.Sale, error)
	GetAll(ctx context.Context) ([]models.Sale, error)
	GetAllIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, sale *models.Sale) error
	UpdateTotal(ctx context.Context, saleID string, total decimal.Decimal) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepositoryImpl {
	return &saleRepository{db}
}

func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) GetWithItems(ctx context.Context, id string) (*models.Sale, error) {
	var sale models.Sale
	err := r.db.WithContext(ctx).
		Preload("SaleItems.Product").
		Preload("SaleItems").
		First(&sale, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) GetAll(ctx context.Context) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).
		Preload("SaleItems.Product").
		Preload("SaleItems").
		Order("date DESC").
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	return sales, nil
}

func (r *saleRepository) GetAllIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Update persists the client-writable sale fields only. date is fixed at
// creation and total_amount belongs to the recomputation path, so neither is
// written back here even though the struct carries values read earlier; a
// full Save could revert a total recomputed between the read and the write.
func (r *saleRepository) Update(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).
		Model(sale).
		Select("status", "payment_method", "updated_at").
		Updates(sale).Error
}

// UpdateTotal writes only the total_amount column so concurrent edits to the
// other sale fields are not clobbered by a recomputation.
func (r *saleRepository) UpdateTotal(ctx context.Context, saleID string, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ?", saleID).
		Update("total_amount", total).Error
}

func (r *saleRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).Delete(&models.Sale{}, "id = ?", id).Error
}
