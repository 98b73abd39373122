package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
)

// VoidService cancels a sale outright: every line reversed back into
// stock, every serial released, the debt and its payments removed, every
// ledger entry cancelled, and the sale stamped terminal. Everything inside
// one transaction; accounting cancellation is blocking.
type VoidService struct {
	scope      TransactionScope
	validator  *ReturnValidator
	reconciler *InventoryReconciler
	validate   *validator.Validate
	logger     *zap.Logger

	// fallback carries post-commit events synchronously when the outbox
	// processor is disabled. Optional; delivery failure is logged only.
	fallback shared.EventPublisher
}

// NewVoidService creates a void service
func NewVoidService(scope TransactionScope, logger *zap.Logger) *VoidService {
	return &VoidService{
		scope:      scope,
		validator:  NewReturnValidator(),
		reconciler: NewInventoryReconciler(logger),
		validate:   validator.New(),
		logger:     logger,
	}
}

// WithFallbackPublisher enables synchronous post-commit event delivery for
// deployments running without the outbox processor.
func (s *VoidService) WithFallbackPublisher(publisher shared.EventPublisher) *VoidService {
	s.fallback = publisher
	return s
}

// VoidSale cancels the sale. The void is terminal: once committed the sale
// rejects every further return or void. Event emission happens after
// commit and never undoes the void.
func (s *VoidService) VoidSale(ctx context.Context, storeID uuid.UUID, req VoidSaleRequest) (*sales.Sale, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var (
		result *sales.Sale
		events []shared.DomainEvent
	)
	err := s.scope.Execute(ctx, func(repos Repos) error {
		sale, err := repos.Sales().FindByIDForStoreLocked(ctx, storeID, req.SaleID)
		if err != nil {
			return err
		}

		invoices, err := repos.Invoices().FindBySale(ctx, storeID, sale.ID)
		if err != nil {
			return fmt.Errorf("failed to load fiscal invoices: %w", err)
		}

		debt, paymentCount, err := loadDebt(ctx, repos, storeID, sale.ID)
		if err != nil {
			return err
		}

		if err := s.validator.ValidateSale(sale, invoices, debt, paymentCount); err != nil {
			return err
		}

		// The debt goes first: validation guarantees zero payments were
		// ever recorded, so the whole record and its (empty) payment
		// history can be removed outright.
		if debt != nil {
			if err := repos.Debts().DeleteWithPayments(ctx, debt.ID); err != nil {
				return fmt.Errorf("failed to delete debt: %w", err)
			}
		}

		warehouses, defaultWarehouse, err := s.reconciler.WarehousePlan(ctx, repos, storeID, sale.ID)
		if err != nil {
			return err
		}

		note := req.Reason
		if note == "" {
			note = "Sale void " + sale.ID.String()
		}

		for idx := range sale.Items {
			item := &sale.Items[idx]
			if err := s.reconciler.ReverseItem(ctx, repos, ReverseItemParams{
				StoreID:     storeID,
				SaleID:      sale.ID,
				UserID:      req.UserID,
				Item:        item,
				Quantity:    item.Quantity,
				Note:        note,
				WarehouseID: warehouses.Lookup(item.ProductID, item.VariantID, defaultWarehouse),
				Reversal:    true,
			}); err != nil {
				return err
			}
		}

		// Serials are released in bulk rather than per line: the void
		// covers every unit still sold under the sale, including units
		// a partial return may have left linked.
		if err := repos.Serials().ReleaseAllForSale(ctx, sale.ID, time.Now()); err != nil {
			return fmt.Errorf("failed to release serials: %w", err)
		}

		if err := s.cancelLedgerEntries(ctx, repos, storeID, sale.ID, req.UserID, req.Reason); err != nil {
			return err
		}

		if err := sale.Void(req.UserID, req.Reason); err != nil {
			return err
		}
		if err := repos.Sales().Save(ctx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}

		events = sale.GetDomainEvents()
		if err := repos.Events().Stage(ctx, events...); err != nil {
			return fmt.Errorf("failed to stage void events: %w", err)
		}
		sale.ClearDomainEvents()

		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishFallback(ctx, events)

	s.logger.Info("sale voided",
		zap.String("store_id", storeID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.String("voided_by", req.UserID.String()))

	return result, nil
}

// cancelLedgerEntries cancels every non-cancelled journal entry generated
// for the sale through the transaction-bound collaborator. Blocking: a
// single failure aborts the void.
func (s *VoidService) cancelLedgerEntries(ctx context.Context, repos Repos, storeID, saleID, userID uuid.UUID, reason string) error {
	accounting := repos.Accounting()

	entries, err := accounting.FindEntriesBySale(ctx, storeID, saleID)
	if err != nil {
		return shared.NewExternalError("accounting.find_entries", err)
	}

	for _, entry := range entries {
		if entry.IsCancelled() {
			continue
		}
		if err := accounting.CancelEntry(ctx, storeID, entry.ID, userID, reason); err != nil {
			return shared.NewExternalError("accounting.cancel_entry", err)
		}
		s.logger.Debug("cancelled ledger entry",
			zap.String("sale_id", saleID.String()),
			zap.String("entry_number", entry.EntryNumber))
	}

	return nil
}

// publishFallback delivers committed events synchronously when configured.
// Failures are logged and swallowed: the void already committed.
func (s *VoidService) publishFallback(ctx context.Context, events []shared.DomainEvent) {
	if s.fallback == nil || len(events) == 0 {
		return
	}
	if err := s.fallback.Publish(ctx, events...); err != nil {
		s.logger.Warn("fallback event publish failed", zap.Error(err))
	}
}
