package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/lacaja/backend/internal/domain/inventory"
	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
)

// MockSaleRepository mocks sales.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForStoreLocked(ctx context.Context, storeID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// MockSaleReturnRepository mocks sales.SaleReturnRepository
type MockSaleReturnRepository struct {
	mock.Mock
}

func (m *MockSaleReturnRepository) Create(ctx context.Context, sr *sales.SaleReturn) error {
	args := m.Called(ctx, sr)
	return args.Error(0)
}

func (m *MockSaleReturnRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]sales.SaleReturn, error) {
	args := m.Called(ctx, storeID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.SaleReturn), args.Error(1)
}

func (m *MockSaleReturnRepository) ReturnedQuantityBySaleItem(ctx context.Context, saleItemIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, saleItemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

// MockProductSerialRepository mocks sales.ProductSerialRepository
type MockProductSerialRepository struct {
	mock.Mock
}

func (m *MockProductSerialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]sales.ProductSerial, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.ProductSerial), args.Error(1)
}

func (m *MockProductSerialRepository) FindBySaleItem(ctx context.Context, saleItemID uuid.UUID) ([]sales.ProductSerial, error) {
	args := m.Called(ctx, saleItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.ProductSerial), args.Error(1)
}

func (m *MockProductSerialRepository) FindSoldBySale(ctx context.Context, saleID uuid.UUID) ([]sales.ProductSerial, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.ProductSerial), args.Error(1)
}

func (m *MockProductSerialRepository) Update(ctx context.Context, serial *sales.ProductSerial) error {
	args := m.Called(ctx, serial)
	return args.Error(0)
}

func (m *MockProductSerialRepository) ReleaseAllForSale(ctx context.Context, saleID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, saleID, at)
	return args.Error(0)
}

// MockProductLotRepository mocks sales.ProductLotRepository
type MockProductLotRepository struct {
	mock.Mock
}

func (m *MockProductLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.ProductLot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.ProductLot), args.Error(1)
}

func (m *MockProductLotRepository) Update(ctx context.Context, lot *sales.ProductLot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockProductLotRepository) AppendMovement(ctx context.Context, movement *sales.LotMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

// MockDebtRepository mocks sales.DebtRepository
type MockDebtRepository struct {
	mock.Mock
}

func (m *MockDebtRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) (*sales.Debt, error) {
	args := m.Called(ctx, storeID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Debt), args.Error(1)
}

func (m *MockDebtRepository) CountPayments(ctx context.Context, debtID uuid.UUID) (int64, error) {
	args := m.Called(ctx, debtID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDebtRepository) Update(ctx context.Context, debt *sales.Debt) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}

func (m *MockDebtRepository) DeleteWithPayments(ctx context.Context, debtID uuid.UUID) error {
	args := m.Called(ctx, debtID)
	return args.Error(0)
}

// MockFiscalInvoiceRepository mocks sales.FiscalInvoiceRepository
type MockFiscalInvoiceRepository struct {
	mock.Mock
}

func (m *MockFiscalInvoiceRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]sales.FiscalInvoice, error) {
	args := m.Called(ctx, storeID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.FiscalInvoice), args.Error(1)
}

// MockInventoryMovementRepository mocks inventory.InventoryMovementRepository
type MockInventoryMovementRepository struct {
	mock.Mock
}

func (m *MockInventoryMovementRepository) Append(ctx context.Context, movement *inventory.InventoryMovement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

func (m *MockInventoryMovementRepository) FindBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]inventory.InventoryMovement, error) {
	args := m.Called(ctx, storeID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryMovement), args.Error(1)
}

// MockStockService mocks StockService
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) DefaultWarehouse(ctx context.Context, storeID uuid.UUID) (*Warehouse, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Warehouse), args.Error(1)
}

func (m *MockStockService) IncrementStock(ctx context.Context, warehouseID, productID uuid.UUID, variantID *uuid.UUID, qty decimal.Decimal, storeID uuid.UUID) error {
	args := m.Called(ctx, warehouseID, productID, variantID, qty, storeID)
	return args.Error(0)
}

// MockAccountingService mocks AccountingService
type MockAccountingService struct {
	mock.Mock
}

func (m *MockAccountingService) FindEntriesBySale(ctx context.Context, storeID, saleID uuid.UUID) ([]LedgerEntry, error) {
	args := m.Called(ctx, storeID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]LedgerEntry), args.Error(1)
}

func (m *MockAccountingService) CancelEntry(ctx context.Context, storeID, entryID, userID uuid.UUID, reason string) error {
	args := m.Called(ctx, storeID, entryID, userID, reason)
	return args.Error(0)
}

// MockEventStager mocks EventStager
type MockEventStager struct {
	mock.Mock
}

func (m *MockEventStager) Stage(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// testEnv bundles every mock behind a pass-through transaction scope
type testEnv struct {
	saleRepo    *MockSaleRepository
	returnRepo  *MockSaleReturnRepository
	serialRepo  *MockProductSerialRepository
	lotRepo     *MockProductLotRepository
	debtRepo    *MockDebtRepository
	invoiceRepo *MockFiscalInvoiceRepository
	moveRepo    *MockInventoryMovementRepository
	stager      *MockEventStager
	stock       *MockStockService
	accounting  *MockAccountingService
	scope       *NoOpTransactionScope
	logger      *zap.Logger
}

func newTestEnv() *testEnv {
	env := &testEnv{
		saleRepo:    new(MockSaleRepository),
		returnRepo:  new(MockSaleReturnRepository),
		serialRepo:  new(MockProductSerialRepository),
		lotRepo:     new(MockProductLotRepository),
		debtRepo:    new(MockDebtRepository),
		invoiceRepo: new(MockFiscalInvoiceRepository),
		moveRepo:    new(MockInventoryMovementRepository),
		stager:      new(MockEventStager),
		stock:       new(MockStockService),
		accounting:  new(MockAccountingService),
		logger:      zap.NewNop(),
	}
	env.scope = &NoOpTransactionScope{
		SaleRepo:     env.saleRepo,
		ReturnRepo:   env.returnRepo,
		SerialRepo:   env.serialRepo,
		LotRepo:      env.lotRepo,
		DebtRepo:     env.debtRepo,
		InvoiceRepo:  env.invoiceRepo,
		MovementRepo: env.moveRepo,
		StockSvc:     env.stock,
		AcctSvc:      env.accounting,
		Stager:       env.stager,
	}
	return env
}

func (e *testEnv) returnService() *ReturnService {
	return NewReturnService(e.scope, e.logger)
}

func (e *testEnv) voidService() *VoidService {
	return NewVoidService(e.scope, e.logger)
}

// testSale builds a single-item cash sale: 3 units at 10 USD / 100 Bs each,
// 3 USD / 30 Bs discount on the line.
func testSale(storeID uuid.UUID) *sales.Sale {
	sale := &sales.Sale{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Payment:            sales.PaymentDetails{Method: sales.PaymentMethodCash},
		Totals: sales.SaleTotals{
			Subtotal: valueobject.NewMoneyFromFloats(300, 30),
			Discount: valueobject.NewMoneyFromFloats(30, 3),
			Total:    valueobject.NewMoneyFromFloats(270, 27),
		},
	}
	sale.Items = []sales.SaleItem{{
		ID:        uuid.New(),
		SaleID:    sale.ID,
		ProductID: uuid.New(),
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: valueobject.NewMoneyFromFloats(100, 10),
		Discount:  valueobject.NewMoneyFromFloats(30, 3),
	}}
	return sale
}

func emptyReturnedMap() map[uuid.UUID]decimal.Decimal {
	return map[uuid.UUID]decimal.Decimal{}
}
