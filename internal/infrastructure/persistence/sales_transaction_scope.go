package persistence

import (
	"context"

	"gorm.io/gorm"

	appsales "github.com/lacaja/backend/internal/application/sales"
	"github.com/lacaja/backend/internal/domain/inventory"
	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/infrastructure/accounting"
	"github.com/lacaja/backend/internal/infrastructure/event"
	"github.com/lacaja/backend/internal/infrastructure/warehouse"
)

// GormTransactionScope implements the sales TransactionScope on a GORM
// database. Every repository handed to the callback shares one
// transaction, and staged events land in the outbox table of the same
// transaction.
type GormTransactionScope struct {
	db         *gorm.DB
	serializer *event.EventSerializer
}

// NewGormTransactionScope creates a new transaction scope
func NewGormTransactionScope(db *gorm.DB, serializer *event.EventSerializer) *GormTransactionScope {
	return &GormTransactionScope{db: db, serializer: serializer}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appsales.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepos{tx: tx, serializer: s.serializer})
	})
}

// gormTransactionalRepos exposes repositories bound to one transaction
type gormTransactionalRepos struct {
	tx         *gorm.DB
	serializer *event.EventSerializer
}

func (r *gormTransactionalRepos) Sales() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepos) Returns() sales.SaleReturnRepository {
	return NewGormSaleReturnRepository(r.tx)
}

func (r *gormTransactionalRepos) Serials() sales.ProductSerialRepository {
	return NewGormProductSerialRepository(r.tx)
}

func (r *gormTransactionalRepos) Lots() sales.ProductLotRepository {
	return NewGormProductLotRepository(r.tx)
}

func (r *gormTransactionalRepos) Debts() sales.DebtRepository {
	return NewGormDebtRepository(r.tx)
}

func (r *gormTransactionalRepos) Invoices() sales.FiscalInvoiceRepository {
	return NewGormFiscalInvoiceRepository(r.tx)
}

func (r *gormTransactionalRepos) Movements() inventory.InventoryMovementRepository {
	return NewGormInventoryMovementRepository(r.tx)
}

// Stock and Accounting hand out the collaborators on the transaction
// handle, so a rollback reverts their writes along with every repository.

func (r *gormTransactionalRepos) Stock() appsales.StockService {
	return warehouse.NewGormStockService(r.tx)
}

func (r *gormTransactionalRepos) Accounting() appsales.AccountingService {
	return accounting.NewGormAccountingService(r.tx)
}

func (r *gormTransactionalRepos) Events() appsales.EventStager {
	return event.NewOutboxStager(r.serializer, r.tx)
}

// Ensure the scope satisfies the application contracts
var _ appsales.TransactionScope = (*GormTransactionScope)(nil)
var _ appsales.Repos = (*gormTransactionalRepos)(nil)
