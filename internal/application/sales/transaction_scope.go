package sales

import (
	"context"

	"github.com/lacaja/backend/internal/domain/inventory"
	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
)

// TransactionScope provides transactional access to every repository a
// return or void touches. All repository operations inside Execute share
// one database transaction and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an
	// error the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos Repos) error) error
}

// Repos exposes the repositories and collaborators scoped to the current
// transaction. The collaborators are included so their writes commit and
// roll back with everything else; handing a service a connection of its
// own would let a stock increment survive an aborted return.
type Repos interface {
	// Sales returns the sale repository
	Sales() sales.SaleRepository
	// Returns returns the sale-return repository
	Returns() sales.SaleReturnRepository
	// Serials returns the product-serial repository
	Serials() sales.ProductSerialRepository
	// Lots returns the product-lot repository
	Lots() sales.ProductLotRepository
	// Debts returns the debt repository
	Debts() sales.DebtRepository
	// Invoices returns the fiscal-invoice repository
	Invoices() sales.FiscalInvoiceRepository
	// Movements returns the inventory-movement repository
	Movements() inventory.InventoryMovementRepository
	// Stock returns the warehouse collaborator bound to the current transaction
	Stock() StockService
	// Accounting returns the ledger collaborator bound to the current transaction
	Accounting() AccountingService
	// Events returns the outbox stager bound to the current transaction
	Events() EventStager
}

// EventStager writes domain events to the outbox within the current
// transaction, so they are delivered at least once after commit.
type EventStager interface {
	Stage(ctx context.Context, events ...shared.DomainEvent) error
}

// NoOpTransactionScope runs the function without a real transaction.
// Used by tests.
type NoOpTransactionScope struct {
	SaleRepo     sales.SaleRepository
	ReturnRepo   sales.SaleReturnRepository
	SerialRepo   sales.ProductSerialRepository
	LotRepo      sales.ProductLotRepository
	DebtRepo     sales.DebtRepository
	InvoiceRepo  sales.FiscalInvoiceRepository
	MovementRepo inventory.InventoryMovementRepository
	StockSvc     StockService
	AcctSvc      AccountingService
	Stager       EventStager
}

// Execute runs fn directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos Repos) error) error {
	return fn(s)
}

// Sales returns the sale repository
func (s *NoOpTransactionScope) Sales() sales.SaleRepository { return s.SaleRepo }

// Returns returns the sale-return repository
func (s *NoOpTransactionScope) Returns() sales.SaleReturnRepository { return s.ReturnRepo }

// Serials returns the product-serial repository
func (s *NoOpTransactionScope) Serials() sales.ProductSerialRepository { return s.SerialRepo }

// Lots returns the product-lot repository
func (s *NoOpTransactionScope) Lots() sales.ProductLotRepository { return s.LotRepo }

// Debts returns the debt repository
func (s *NoOpTransactionScope) Debts() sales.DebtRepository { return s.DebtRepo }

// Invoices returns the fiscal-invoice repository
func (s *NoOpTransactionScope) Invoices() sales.FiscalInvoiceRepository { return s.InvoiceRepo }

// Movements returns the inventory-movement repository
func (s *NoOpTransactionScope) Movements() inventory.InventoryMovementRepository { return s.MovementRepo }

// Stock returns the warehouse collaborator
func (s *NoOpTransactionScope) Stock() StockService { return s.StockSvc }

// Accounting returns the ledger collaborator
func (s *NoOpTransactionScope) Accounting() AccountingService { return s.AcctSvc }

// Events returns the outbox stager
func (s *NoOpTransactionScope) Events() EventStager { return s.Stager }

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ Repos = (*NoOpTransactionScope)(nil)
