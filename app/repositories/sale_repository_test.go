package repositories

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dukahub/duka-pos/app/models"
	"github.com/dukahub/duka-pos/app/models/migrations"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func seedCatalog(t *testing.T, db *gorm.DB) (*models.Category, *models.Product) {
	t.Helper()

	category := &models.Category{Name: "Beverages"}
	require.NoError(t, db.Create(category).Error)

	product := &models.Product{
		Name:          "Soda 500ml",
		UnitPrice:     decimal.RequireFromString("9.99"),
		CategoryID:    category.ID,
		Sku:           "soda-500",
		StockQuantity: 10,
	}
	require.NoError(t, db.Create(product).Error)
	return category, product
}

func TestSaleRepositoryUpdateTotalTouchesOnlyTotal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	sale := &models.Sale{Status: models.SaleStatusPending, PaymentMethod: models.PaymentMethodCash}
	require.NoError(t, repo.Create(ctx, sale))

	require.NoError(t, repo.UpdateTotal(ctx, sale.ID, decimal.RequireFromString("42.50")))

	stored, err := repo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "42.50", stored.TotalAmount.StringFixed(2))
	assert.Equal(t, models.SaleStatusPending, stored.Status)
	assert.Equal(t, sale.Date.Unix(), stored.Date.Unix())
}

func TestSaleRepositoryUpdateKeepsRecomputedTotal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSaleRepository(db)
	ctx := context.Background()

	sale := &models.Sale{Status: models.SaleStatusPending, PaymentMethod: models.PaymentMethodCash}
	require.NoError(t, repo.Create(ctx, sale))

	// Total moves after the sale struct was read; the struct still carries 0.
	require.NoError(t, repo.UpdateTotal(ctx, sale.ID, decimal.RequireFromString("9.99")))

	sale.Status = models.SaleStatusCompleted
	require.NoError(t, repo.Update(ctx, sale))

	stored, err := repo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.SaleStatusCompleted, stored.Status)
	assert.Equal(t, "9.99", stored.TotalAmount.StringFixed(2))
}

func TestSaleRepositoryGetByIDMissingIsNilNil(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSaleRepository(db)

	sale, err := repo.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, sale)
}

func TestSaleItemRepositoryDistinctSaleIDsByProduct(t *testing.T) {
	db := setupTestDB(t)
	saleRepo := NewSaleRepository(db)
	itemRepo := NewSaleItemRepository(db)
	ctx := context.Background()

	_, product := seedCatalog(t, db)

	saleA := &models.Sale{Status: models.SaleStatusPending, PaymentMethod: models.PaymentMethodCash}
	require.NoError(t, saleRepo.Create(ctx, saleA))
	saleB := &models.Sale{Status: models.SaleStatusPending, PaymentMethod: models.PaymentMethodCash}
	require.NoError(t, saleRepo.Create(ctx, saleB))

	for _, saleID := range []string{saleA.ID, saleA.ID, saleB.ID} {
		item := &models.SaleItem{
			SaleID:    saleID,
			ProductID: product.ID,
			Quantity:  decimal.RequireFromString("1.00"),
		}
		require.NoError(t, itemRepo.Add(ctx, item))
	}

	saleIDs, err := itemRepo.GetSaleIDsByProductIDs(ctx, db, []string{product.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{saleA.ID, saleB.ID}, saleIDs)

	saleIDs, err = itemRepo.GetSaleIDsByProductIDs(ctx, db, nil)
	require.NoError(t, err)
	assert.Empty(t, saleIDs)
}
