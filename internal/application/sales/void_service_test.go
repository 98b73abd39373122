package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lacaja/backend/internal/domain/inventory"
	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
)

// expectVoidScaffolding wires the lookups every happy-path void makes.
func expectVoidScaffolding(ctx context.Context, env *testEnv, storeID uuid.UUID, sale *sales.Sale) *Warehouse {
	env.saleRepo.On("FindByIDForStoreLocked", ctx, storeID, sale.ID).Return(sale, nil).Once()
	env.invoiceRepo.On("FindBySale", ctx, storeID, sale.ID).Return([]sales.FiscalInvoice{}, nil).Once()
	env.debtRepo.On("FindBySale", ctx, storeID, sale.ID).Return(nil, shared.ErrNotFound).Once()
	env.moveRepo.On("FindBySale", ctx, storeID, sale.ID).Return([]inventory.InventoryMovement{}, nil).Once()

	warehouse := &Warehouse{ID: uuid.New(), Name: "Main", IsDefault: true}
	env.stock.On("DefaultWarehouse", ctx, storeID).Return(warehouse, nil).Once()
	return warehouse
}

func TestVoidSale(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	userID := uuid.New()

	t.Run("void reverses stock, releases serials, and stamps the sale", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)
		item := &sale.Items[0]
		warehouse := expectVoidScaffolding(ctx, env, storeID, sale)

		var appended *inventory.InventoryMovement
		env.moveRepo.On("Append", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				appended = args.Get(1).(*inventory.InventoryMovement)
			}).Return(nil).Once()
		env.stock.On("IncrementStock", ctx, warehouse.ID, item.ProductID, item.VariantID,
			item.Quantity, storeID).Return(nil).Once()
		env.serialRepo.On("ReleaseAllForSale", ctx, sale.ID, mock.AnythingOfType("time.Time")).
			Return(nil).Once()
		env.accounting.On("FindEntriesBySale", ctx, storeID, sale.ID).Return([]LedgerEntry{}, nil).Once()
		env.saleRepo.On("Save", ctx, sale).Return(nil).Once()
		env.stager.On("Stage", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			return len(events) == 1 && events[0].EventType() == sales.EventTypeSaleVoided
		})).Return(nil).Once()

		result, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "cashier mistake",
		})

		require.NoError(t, err)
		assert.True(t, result.IsVoided())
		require.NotNil(t, result.VoidedBy)
		assert.Equal(t, userID, *result.VoidedBy)
		assert.Equal(t, "cashier mistake", result.VoidReason)

		// full quantity back to stock, ref tagged as a reversal
		require.NotNil(t, appended)
		assert.True(t, appended.QtyDelta.Equal(item.Quantity))
		assert.True(t, appended.Ref.Reversal)
		assert.False(t, appended.Ref.Return)

		// staged events were cleared off the aggregate
		assert.Empty(t, result.GetDomainEvents())

		env.serialRepo.AssertExpectations(t)
		env.stager.AssertExpectations(t)
	})

	t.Run("deletes a payment-free debt with its history", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)
		sale.Payment = sales.PaymentDetails{Method: sales.PaymentMethodFiao}
		item := &sale.Items[0]

		debt := &sales.Debt{
			StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
			SaleID:             sale.ID,
			Amount:             sale.Totals.Total,
			Status:             sales.DebtStatusOpen,
		}

		env.saleRepo.On("FindByIDForStoreLocked", ctx, storeID, sale.ID).Return(sale, nil).Once()
		env.invoiceRepo.On("FindBySale", ctx, storeID, sale.ID).Return([]sales.FiscalInvoice{}, nil).Once()
		env.debtRepo.On("FindBySale", ctx, storeID, sale.ID).Return(debt, nil).Once()
		env.debtRepo.On("CountPayments", ctx, debt.ID).Return(int64(0), nil).Once()
		env.debtRepo.On("DeleteWithPayments", ctx, debt.ID).Return(nil).Once()
		env.moveRepo.On("FindBySale", ctx, storeID, sale.ID).Return([]inventory.InventoryMovement{}, nil).Once()
		warehouse := &Warehouse{ID: uuid.New()}
		env.stock.On("DefaultWarehouse", ctx, storeID).Return(warehouse, nil).Once()
		env.moveRepo.On("Append", ctx, mock.Anything).Return(nil).Once()
		env.stock.On("IncrementStock", ctx, warehouse.ID, item.ProductID, item.VariantID,
			item.Quantity, storeID).Return(nil).Once()
		env.serialRepo.On("ReleaseAllForSale", ctx, sale.ID, mock.Anything).Return(nil).Once()
		env.accounting.On("FindEntriesBySale", ctx, storeID, sale.ID).Return([]LedgerEntry{}, nil).Once()
		env.saleRepo.On("Save", ctx, sale).Return(nil).Once()
		env.stager.On("Stage", ctx, mock.Anything).Return(nil).Once()

		_, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "duplicate sale",
		})

		require.NoError(t, err)
		env.debtRepo.AssertExpectations(t)
	})

	t.Run("rejects when the debt has recorded payments", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)

		debt := &sales.Debt{
			StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
			SaleID:             sale.ID,
			Status:             sales.DebtStatusPartial,
		}

		env.saleRepo.On("FindByIDForStoreLocked", ctx, storeID, sale.ID).Return(sale, nil).Once()
		env.invoiceRepo.On("FindBySale", ctx, storeID, sale.ID).Return([]sales.FiscalInvoice{}, nil).Once()
		env.debtRepo.On("FindBySale", ctx, storeID, sale.ID).Return(debt, nil).Once()
		env.debtRepo.On("CountPayments", ctx, debt.ID).Return(int64(1), nil).Once()

		_, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "attempted void",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DEBT_HAS_PAYMENTS", domainErr.Code)
		env.debtRepo.AssertNotCalled(t, "DeleteWithPayments", mock.Anything, mock.Anything)
		env.moveRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("rejects while an issued invoice lacks a credit note", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)

		issued := sales.FiscalInvoice{
			StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
			SaleID:             sale.ID,
			InvoiceNumber:      "F-001",
			Type:               sales.InvoiceTypeInvoice,
			Status:             sales.InvoiceStatusIssued,
		}

		env.saleRepo.On("FindByIDForStoreLocked", ctx, storeID, sale.ID).Return(sale, nil).Once()
		env.invoiceRepo.On("FindBySale", ctx, storeID, sale.ID).
			Return([]sales.FiscalInvoice{issued}, nil).Once()
		env.debtRepo.On("FindBySale", ctx, storeID, sale.ID).Return(nil, shared.ErrNotFound).Once()

		_, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "fiscal mismatch",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CREDIT_NOTE_REQUIRED", domainErr.Code)
		assert.False(t, sale.IsVoided())
		env.moveRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		env.serialRepo.AssertNotCalled(t, "ReleaseAllForSale", mock.Anything, mock.Anything, mock.Anything)
		env.accounting.AssertNotCalled(t, "FindEntriesBySale", mock.Anything, mock.Anything, mock.Anything)
		env.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cancels every non-cancelled ledger entry", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)
		item := &sale.Items[0]
		warehouse := expectVoidScaffolding(ctx, env, storeID, sale)

		open := LedgerEntry{ID: uuid.New(), EntryNumber: "JE-001", Status: "posted"}
		cancelled := LedgerEntry{ID: uuid.New(), EntryNumber: "JE-002", Status: LedgerEntryStatusCancelled}

		env.moveRepo.On("Append", ctx, mock.Anything).Return(nil).Once()
		env.stock.On("IncrementStock", ctx, warehouse.ID, item.ProductID, item.VariantID,
			item.Quantity, storeID).Return(nil).Once()
		env.serialRepo.On("ReleaseAllForSale", ctx, sale.ID, mock.Anything).Return(nil).Once()
		env.accounting.On("FindEntriesBySale", ctx, storeID, sale.ID).
			Return([]LedgerEntry{open, cancelled}, nil).Once()
		env.accounting.On("CancelEntry", ctx, storeID, open.ID, userID, "refund").Return(nil).Once()
		env.saleRepo.On("Save", ctx, sale).Return(nil).Once()
		env.stager.On("Stage", ctx, mock.Anything).Return(nil).Once()

		_, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "refund",
		})

		require.NoError(t, err)
		env.accounting.AssertExpectations(t)
		env.accounting.AssertNotCalled(t, "CancelEntry", ctx, storeID, cancelled.ID, userID, "refund")
	})

	t.Run("accounting failure aborts the void", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)
		item := &sale.Items[0]
		warehouse := expectVoidScaffolding(ctx, env, storeID, sale)

		entry := LedgerEntry{ID: uuid.New(), EntryNumber: "JE-001", Status: "posted"}

		env.moveRepo.On("Append", ctx, mock.Anything).Return(nil).Once()
		env.stock.On("IncrementStock", ctx, warehouse.ID, item.ProductID, item.VariantID,
			item.Quantity, storeID).Return(nil).Once()
		env.serialRepo.On("ReleaseAllForSale", ctx, sale.ID, mock.Anything).Return(nil).Once()
		env.accounting.On("FindEntriesBySale", ctx, storeID, sale.ID).Return([]LedgerEntry{entry}, nil).Once()
		env.accounting.On("CancelEntry", ctx, storeID, entry.ID, userID, "refund").
			Return(errors.New("ledger locked")).Once()

		_, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "refund",
		})

		var externalErr *shared.ExternalError
		require.ErrorAs(t, err, &externalErr)
		assert.Equal(t, "accounting.cancel_entry", externalErr.Op)
		env.saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		assert.False(t, sale.IsVoided())
	})

	t.Run("voiding twice is rejected", func(t *testing.T) {
		env := newTestEnv()
		service := env.voidService()
		sale := testSale(storeID)
		now := time.Now()
		sale.VoidedAt = &now

		env.saleRepo.On("FindByIDForStoreLocked", ctx, storeID, sale.ID).Return(sale, nil).Once()
		env.invoiceRepo.On("FindBySale", ctx, storeID, sale.ID).Return([]sales.FiscalInvoice{}, nil).Once()
		env.debtRepo.On("FindBySale", ctx, storeID, sale.ID).Return(nil, shared.ErrNotFound).Once()

		_, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "again",
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SALE_VOIDED", domainErr.Code)
	})

	t.Run("fallback publisher failure does not undo the void", func(t *testing.T) {
		env := newTestEnv()
		sale := testSale(storeID)
		item := &sale.Items[0]
		warehouse := expectVoidScaffolding(ctx, env, storeID, sale)

		failing := new(mockEventPublisher)
		failing.On("Publish", ctx, mock.Anything).Return(errors.New("bus down")).Once()
		service := env.voidService().WithFallbackPublisher(failing)

		env.moveRepo.On("Append", ctx, mock.Anything).Return(nil).Once()
		env.stock.On("IncrementStock", ctx, warehouse.ID, item.ProductID, item.VariantID,
			item.Quantity, storeID).Return(nil).Once()
		env.serialRepo.On("ReleaseAllForSale", ctx, sale.ID, mock.Anything).Return(nil).Once()
		env.accounting.On("FindEntriesBySale", ctx, storeID, sale.ID).Return([]LedgerEntry{}, nil).Once()
		env.saleRepo.On("Save", ctx, sale).Return(nil).Once()
		env.stager.On("Stage", ctx, mock.Anything).Return(nil).Once()

		result, err := service.VoidSale(ctx, storeID, VoidSaleRequest{
			SaleID: sale.ID,
			UserID: userID,
			Reason: "bus failure tolerated",
		})

		require.NoError(t, err)
		assert.True(t, result.IsVoided())
		failing.AssertExpectations(t)
	})
}

// mockEventPublisher mocks shared.EventPublisher
type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}
