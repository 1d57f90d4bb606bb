package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dukahub/duka-pos/app/models"
	"github.com/dukahub/duka-pos/app/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSaleDefaultsToPendingAndZeroTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sale, err := env.sales.CreateSale(ctx, "", models.PaymentMethodMobile)
	require.NoError(t, err)

	assert.Equal(t, models.SaleStatusPending, sale.Status)
	assert.Equal(t, models.PaymentMethodMobile, sale.PaymentMethod)
	assert.Equal(t, "0.00", sale.TotalAmount.StringFixed(2))
	assert.False(t, sale.Date.IsZero())
}

func TestCreateSaleRejectsBadEnums(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.sales.CreateSale(ctx, "shipped", models.PaymentMethodCash)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = env.sales.CreateSale(ctx, models.SaleStatusPending, "credit_card")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

// Walks the running-total scenario: add 3 x 9.99, add 2 x 5.00, then delete
// the first item, checking the sale total after each step.
func TestSaleTotalFollowsItemMutations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	q := env.seedProduct(t, "Bread", "bread-400", "5.00")
	sale := env.seedSale(t)

	first, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "3.00"))
	require.NoError(t, err)
	require.True(t, first.Subtotal.Valid)
	assert.Equal(t, "29.97", first.Subtotal.Decimal.StringFixed(2))

	stored, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "29.97", stored.TotalAmount.StringFixed(2))

	second, err := env.sales.AddItem(ctx, sale.ID, q.ID, mustDecimal(t, "2.00"))
	require.NoError(t, err)
	assert.Equal(t, "10.00", second.Subtotal.Decimal.StringFixed(2))

	stored, err = env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "39.97", stored.TotalAmount.StringFixed(2))

	require.NoError(t, env.sales.DeleteItem(ctx, first.ID))

	stored, err = env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", stored.TotalAmount.StringFixed(2))
}

func TestUpdateItemQuantityRecomputesSubtotalAndTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	item, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "3.00"))
	require.NoError(t, err)

	updated, err := env.sales.UpdateItem(ctx, item.ID, "", mustDecimal(t, "1.00"))
	require.NoError(t, err)
	assert.Equal(t, "9.99", updated.Subtotal.Decimal.StringFixed(2))

	stored, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	// Total dropped by exactly 19.98.
	assert.Equal(t, "9.99", stored.TotalAmount.StringFixed(2))
}

func TestDeleteLastItemDrivesTotalToZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	item, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "2.00"))
	require.NoError(t, err)

	require.NoError(t, env.sales.DeleteItem(ctx, item.ID))

	stored, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", stored.TotalAmount.StringFixed(2))
}

func TestAddItemUnknownProductLeavesNoRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sale := env.seedSale(t)

	_, err := env.sales.AddItem(ctx, sale.ID, "no-such-product", mustDecimal(t, "1.00"))
	assert.ErrorIs(t, err, ErrProductNotFound)

	items, err := env.saleItemRepo.GetBySaleID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	_, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "0.00"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "-1.00"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestAddItemUnknownSale(t *testing.T) {
	env := newTestEnv(t)

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")

	_, err := env.sales.AddItem(context.Background(), "no-such-sale", p.ID, mustDecimal(t, "1.00"))
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestUpdateSaleKeepsDateAndTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	_, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "1.00"))
	require.NoError(t, err)

	updated, err := env.sales.UpdateSale(ctx, sale.ID, models.SaleStatusCompleted, models.PaymentMethodMobile)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusCompleted, updated.Status)
	assert.Equal(t, models.PaymentMethodMobile, updated.PaymentMethod)
	assert.Equal(t, sale.Date.Unix(), updated.Date.Unix())
	assert.Equal(t, "9.99", updated.TotalAmount.StringFixed(2))
}

func TestDeleteSaleRemovesItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	_, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "2.00"))
	require.NoError(t, err)

	require.NoError(t, env.sales.DeleteSale(ctx, sale.ID))

	_, err = env.sales.GetSale(ctx, sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)

	items, err := env.saleItemRepo.GetBySaleID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListSalesOrderedByDateDescending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	older := env.seedSale(t)
	require.NoError(t, env.db.Model(&models.Sale{}).
		Where("id = ?", older.ID).
		Update("date", older.Date.AddDate(0, 0, -1)).Error)

	newer := env.seedSale(t)

	sales, err := env.sales.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, newer.ID, sales[0].ID)
	assert.Equal(t, older.ID, sales[1].ID)
}

// Concurrent adds against one sale must each land exactly once in the final
// total: the per-sale lock linearizes the write→recompute sequences.
func TestConcurrentAddsLinearizeTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "2.50")
	sale := env.seedSale(t)

	const workers = 8
	qty := mustDecimal(t, "1.00")

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.sales.AddItem(ctx, sale.ID, p.ID, qty)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	stored, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", stored.TotalAmount.StringFixed(2))
}

// pausingSaleRepo blocks inside Update until released, so a test can slot
// another write between UpdateSale's read and its write-back.
type pausingSaleRepo struct {
	repositories.SaleRepositoryImpl
	entered chan struct{}
	release chan struct{}
}

func (r *pausingSaleRepo) Update(ctx context.Context, sale *models.Sale) error {
	r.entered <- struct{}{}
	<-r.release
	return r.SaleRepositoryImpl.Update(ctx, sale)
}

// A sale-field update that straddles an item write must not revert the total
// the engine recomputed in between: UpdateSale writes status and payment
// method only, never the total it read.
func TestUpdateSaleDoesNotRevertConcurrentTotal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	paused := &pausingSaleRepo{
		SaleRepositoryImpl: env.saleRepo,
		entered:            make(chan struct{}),
		release:            make(chan struct{}),
	}
	slowSales := NewSaleService(env.db, paused, env.saleItemRepo, env.productRepo, env.totals, nil)

	done := make(chan error, 1)
	go func() {
		_, err := slowSales.UpdateSale(ctx, sale.ID, models.SaleStatusCompleted, "")
		done <- err
	}()

	// UpdateSale has read the sale and is about to write it back.
	<-paused.entered
	_, err := env.sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "1.00"))
	require.NoError(t, err)
	close(paused.release)
	require.NoError(t, <-done)

	stored, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleStatusCompleted, stored.Status)
	assert.Equal(t, "9.99", stored.TotalAmount.StringFixed(2))
}

// flakyTotalSaleRepo fails total writes on demand while passing everything
// else through.
type flakyTotalSaleRepo struct {
	repositories.SaleRepositoryImpl
	failTotal bool
}

func (r *flakyTotalSaleRepo) UpdateTotal(ctx context.Context, saleID string, total decimal.Decimal) error {
	if r.failTotal {
		return errors.New("total write refused")
	}
	return r.SaleRepositoryImpl.UpdateTotal(ctx, saleID, total)
}

// When the item write lands but the total write fails, the caller gets the
// durable item back alongside a *TotalsInconsistencyError naming the sale,
// and RecomputeAllTotals repairs the stale total afterwards.
func TestAddItemSurfacesTotalsInconsistency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p := env.seedProduct(t, "Soda 500ml", "soda-500", "9.99")
	sale := env.seedSale(t)

	flaky := &flakyTotalSaleRepo{SaleRepositoryImpl: env.saleRepo, failTotal: true}
	totals := NewTotalsService(env.productRepo, flaky, env.saleItemRepo, nil)
	sales := NewSaleService(env.db, flaky, env.saleItemRepo, env.productRepo, totals, nil)

	item, err := sales.AddItem(ctx, sale.ID, p.ID, mustDecimal(t, "1.00"))
	require.Error(t, err)

	var inconsistency *TotalsInconsistencyError
	require.ErrorAs(t, err, &inconsistency)
	assert.Equal(t, sale.ID, inconsistency.SaleID)

	require.NotNil(t, item)
	stored, err := env.saleItemRepo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)

	stale, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", stale.TotalAmount.StringFixed(2))

	flaky.failTotal = false
	count, err := totals.RecomputeAllTotals(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	repaired, err := env.saleRepo.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "9.99", repaired.TotalAmount.StringFixed(2))
}

func TestDeleteSaleDropsItsLockEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sale := env.seedSale(t)
	require.NoError(t, env.sales.DeleteSale(ctx, sale.ID))

	_, held := env.totals.saleLocks.Load(sale.ID)
	assert.False(t, held)
}
