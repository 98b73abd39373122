package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	appsales "github.com/lacaja/backend/internal/application/sales"
	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
	"github.com/lacaja/backend/internal/infrastructure/event"
	"github.com/lacaja/backend/internal/infrastructure/persistence/models"
)

func setupScopeTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.SaleReturnModel{},
		&models.SaleReturnItemModel{},
		&models.OutboxEntryModel{},
		&models.WarehouseModel{},
		&models.WarehouseStockModel{},
		&models.JournalEntryModel{},
	)
	require.NoError(t, err)

	return db
}

func buildReturn(t *testing.T, storeID, saleID uuid.UUID) *sales.SaleReturn {
	t.Helper()

	sr, err := sales.NewSaleReturn(storeID, saleID, uuid.New(), "damaged goods")
	require.NoError(t, err)

	item := &sales.SaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		ProductID: uuid.New(),
		Quantity:  decimal.NewFromInt(5),
		UnitPrice: valueobject.NewMoneyFromFloats(100, 10),
	}
	sr.AddItem(item, decimal.NewFromInt(2),
		valueobject.NewMoneyFromFloats(200, 20),
		valueobject.NewMoneyFromFloats(20, 2),
		valueobject.NewMoneyFromFloats(180, 18),
		nil, "damaged goods")
	sr.RoundTotals()

	return sr
}

func TestGormTransactionScope_Execute(t *testing.T) {
	t.Run("commits return and staged event together", func(t *testing.T) {
		db := setupScopeTestDB(t)
		scope := NewGormTransactionScope(db, event.NewSalesEventSerializer())
		ctx := context.Background()

		storeID := uuid.New()
		saleID := uuid.New()
		var returnID uuid.UUID

		err := scope.Execute(ctx, func(repos appsales.Repos) error {
			sr := buildReturn(t, storeID, saleID)
			returnID = sr.ID
			if err := repos.Returns().Create(ctx, sr); err != nil {
				return err
			}
			return repos.Events().Stage(ctx, sales.NewSaleReturnCreatedEvent(sr))
		})
		require.NoError(t, err)

		returns, err := NewGormSaleReturnRepository(db).FindBySale(ctx, storeID, saleID)
		require.NoError(t, err)
		require.Len(t, returns, 1)
		assert.Equal(t, returnID, returns[0].ID)
		require.Len(t, returns[0].Items, 1)
		assert.True(t, returns[0].Items[0].Quantity.Equal(decimal.NewFromInt(2)))

		pending, err := event.NewGormOutboxRepository(db).FindPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, sales.EventTypeSaleReturnCreated, pending[0].EventType)
		assert.Equal(t, shared.OutboxStatusPending, pending[0].Status)
		assert.Equal(t, returnID, pending[0].AggregateID)
	})

	t.Run("rolls back everything when the callback fails", func(t *testing.T) {
		db := setupScopeTestDB(t)
		scope := NewGormTransactionScope(db, event.NewSalesEventSerializer())
		ctx := context.Background()

		storeID := uuid.New()
		saleID := uuid.New()
		boom := errors.New("boom")

		err := scope.Execute(ctx, func(repos appsales.Repos) error {
			sr := buildReturn(t, storeID, saleID)
			if err := repos.Returns().Create(ctx, sr); err != nil {
				return err
			}
			if err := repos.Events().Stage(ctx, sales.NewSaleReturnCreatedEvent(sr)); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		returns, err := NewGormSaleReturnRepository(db).FindBySale(ctx, storeID, saleID)
		require.NoError(t, err)
		assert.Empty(t, returns)

		pending, err := event.NewGormOutboxRepository(db).FindPending(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("collaborator writes commit with the transaction", func(t *testing.T) {
		db := setupScopeTestDB(t)
		scope := NewGormTransactionScope(db, event.NewSalesEventSerializer())
		ctx := context.Background()

		storeID := uuid.New()
		warehouseID, entryID := seedCollaboratorRows(t, db, storeID)
		productID := uuid.New()
		userID := uuid.New()

		err := scope.Execute(ctx, func(repos appsales.Repos) error {
			if err := repos.Stock().IncrementStock(ctx, warehouseID, productID, nil,
				decimal.NewFromInt(2), storeID); err != nil {
				return err
			}
			return repos.Accounting().CancelEntry(ctx, storeID, entryID, userID, "sale voided")
		})
		require.NoError(t, err)

		var stock models.WarehouseStockModel
		require.NoError(t, db.Where("warehouse_id = ? AND product_id = ?", warehouseID, productID).
			First(&stock).Error)
		assert.True(t, stock.Quantity.Equal(decimal.NewFromInt(2)))

		var entry models.JournalEntryModel
		require.NoError(t, db.First(&entry, "id = ?", entryID).Error)
		assert.Equal(t, "cancelled", entry.Status)
	})

	t.Run("collaborator writes roll back with the transaction", func(t *testing.T) {
		db := setupScopeTestDB(t)
		scope := NewGormTransactionScope(db, event.NewSalesEventSerializer())
		ctx := context.Background()

		storeID := uuid.New()
		warehouseID, entryID := seedCollaboratorRows(t, db, storeID)
		productID := uuid.New()
		boom := errors.New("boom")

		err := scope.Execute(ctx, func(repos appsales.Repos) error {
			if err := repos.Stock().IncrementStock(ctx, warehouseID, productID, nil,
				decimal.NewFromInt(2), storeID); err != nil {
				return err
			}
			if err := repos.Accounting().CancelEntry(ctx, storeID, entryID, uuid.New(), "sale voided"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		// No stock increment survives the aborted operation
		var stockCount int64
		require.NoError(t, db.Model(&models.WarehouseStockModel{}).
			Where("warehouse_id = ?", warehouseID).Count(&stockCount).Error)
		assert.Zero(t, stockCount)

		// And the ledger entry is still posted
		var entry models.JournalEntryModel
		require.NoError(t, db.First(&entry, "id = ?", entryID).Error)
		assert.Equal(t, "posted", entry.Status)
		assert.Nil(t, entry.CancelledAt)
	})
}

// seedCollaboratorRows creates the warehouse and posted journal entry the
// collaborator calls operate on.
func seedCollaboratorRows(t *testing.T, db *gorm.DB, storeID uuid.UUID) (warehouseID, entryID uuid.UUID) {
	t.Helper()
	now := time.Now()

	wh := models.WarehouseModel{
		ID:        uuid.New(),
		StoreID:   storeID,
		Name:      "Main",
		IsDefault: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&wh).Error)

	entry := models.JournalEntryModel{
		ID:          uuid.New(),
		StoreID:     storeID,
		EntryNumber: "JE-001",
		SourceType:  "sale",
		SourceID:    uuid.New(),
		Status:      "posted",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(&entry).Error)

	return wh.ID, entry.ID
}

func TestGormSaleReturnRepository_ReturnedQuantityBySaleItem(t *testing.T) {
	db := setupScopeTestDB(t)
	repo := NewGormSaleReturnRepository(db)
	ctx := context.Background()

	storeID := uuid.New()
	saleID := uuid.New()
	item := &sales.SaleItem{
		ID:        uuid.New(),
		SaleID:    saleID,
		ProductID: uuid.New(),
		Quantity:  decimal.NewFromInt(5),
		UnitPrice: valueobject.NewMoneyFromFloats(100, 10),
	}

	for _, qty := range []int64{1, 2} {
		sr, err := sales.NewSaleReturn(storeID, saleID, uuid.New(), "")
		require.NoError(t, err)
		sr.AddItem(item, decimal.NewFromInt(qty),
			valueobject.NewMoneyFromFloats(100, 10),
			valueobject.NewMoneyFromFloats(0, 0),
			valueobject.NewMoneyFromFloats(100, 10),
			nil, "")
		sr.RoundTotals()
		require.NoError(t, repo.Create(ctx, sr))
	}

	returned, err := repo.ReturnedQuantityBySaleItem(ctx, []uuid.UUID{item.ID})
	require.NoError(t, err)
	require.Contains(t, returned, item.ID)
	assert.True(t, returned[item.ID].Equal(decimal.NewFromInt(3)),
		"expected 3, got %s", returned[item.ID])

	empty, err := repo.ReturnedQuantityBySaleItem(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
