package sales

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
)

// ReturnService processes partial returns against completed sales. One
// call reverses one or more line quantities atomically: stock, lots,
// serials, sale totals, and debt all move together or not at all.
type ReturnService struct {
	scope      TransactionScope
	validator  *ReturnValidator
	reconciler *InventoryReconciler
	calculator *FinancialRecalculator
	validate   *validator.Validate
	logger     *zap.Logger
}

// NewReturnService creates a return service
func NewReturnService(scope TransactionScope, logger *zap.Logger) *ReturnService {
	return &ReturnService{
		scope:      scope,
		validator:  NewReturnValidator(),
		reconciler: NewInventoryReconciler(logger),
		calculator: NewFinancialRecalculator(),
		validate:   validator.New(),
		logger:     logger,
	}
}

// ProcessReturn accepts a partial return. The sale row is locked for the
// duration of the transaction so concurrent returns against the same sale
// serialize instead of double-counting remaining quantities.
func (s *ReturnService) ProcessReturn(ctx context.Context, storeID uuid.UUID, req ProcessReturnRequest) (*sales.SaleReturn, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	var result *sales.SaleReturn
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

		itemIDs := make([]uuid.UUID, 0, len(sale.Items))
		for idx := range sale.Items {
			itemIDs = append(itemIDs, sale.Items[idx].ID)
		}
		returned, err := repos.Returns().ReturnedQuantityBySaleItem(ctx, itemIDs)
		if err != nil {
			return fmt.Errorf("failed to load prior returns: %w", err)
		}

		warehouses, defaultWarehouse, err := s.reconciler.WarehousePlan(ctx, repos, storeID, sale.ID)
		if err != nil {
			return err
		}

		sr, err := sales.NewSaleReturn(storeID, sale.ID, req.UserID, req.Reason)
		if err != nil {
			return err
		}

		for _, input := range req.Items {
			item := sale.GetItem(input.SaleItemID)
			if item == nil {
				return shared.NewDomainError("NOT_FOUND",
					fmt.Sprintf("Sale item %s does not belong to the sale", input.SaleItemID))
			}

			soldSerials, err := repos.Serials().FindBySaleItem(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("failed to load item serials: %w", err)
			}
			soldCount := 0
			for idx := range soldSerials {
				if soldSerials[idx].IsSold() {
					soldCount++
				}
			}

			if err := s.validator.ValidateItem(item, input, returned[item.ID], soldCount); err != nil {
				return err
			}

			note := input.Note
			if note == "" {
				note = req.Reason
			}
			if note == "" {
				note = "Sale return " + sale.ID.String()
			}

			if err := s.reconciler.ReverseItem(ctx, repos, ReverseItemParams{
				StoreID:     storeID,
				SaleID:      sale.ID,
				UserID:      req.UserID,
				ReturnID:    &sr.ID,
				Item:        item,
				Quantity:    input.Quantity,
				SerialIDs:   input.SerialIDs,
				Note:        note,
				WarehouseID: warehouses.Lookup(item.ProductID, item.VariantID, defaultWarehouse),
			}); err != nil {
				return err
			}

			fin := s.calculator.LineFinancials(item, input.Quantity)
			sr.AddItem(item, input.Quantity, fin.Subtotal, fin.Discount, fin.Total, input.SerialIDs, input.Note)
		}

		s.calculator.ApplyReturn(sale, debt, sr.Totals)
		sr.RoundTotals()

		if err := repos.Sales().Save(ctx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if debt != nil {
			if err := repos.Debts().Update(ctx, debt); err != nil {
				return fmt.Errorf("failed to update debt: %w", err)
			}
		}
		if err := repos.Returns().Create(ctx, sr); err != nil {
			return fmt.Errorf("failed to create return: %w", err)
		}

		if err := repos.Events().Stage(ctx, sales.NewSaleReturnCreatedEvent(sr)); err != nil {
			return fmt.Errorf("failed to stage return event: %w", err)
		}

		result = sr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale return processed",
		zap.String("store_id", storeID.String()),
		zap.String("sale_id", req.SaleID.String()),
		zap.String("return_id", result.ID.String()),
		zap.Int("items", len(result.Items)))

	return result, nil
}

// BuildFullReturnItems proposes the line inputs for returning everything
// still outstanding on a sale: remaining quantity per item, serials
// defaulted to every currently-sold serial of the item. Items already fully
// returned are skipped.
func (s *ReturnService) BuildFullReturnItems(ctx context.Context, storeID, saleID uuid.UUID) ([]ReturnItemInput, error) {
	var items []ReturnItemInput
	err := s.scope.Execute(ctx, func(repos Repos) error {
		sale, err := repos.Sales().FindByIDForStore(ctx, storeID, saleID)
		if err != nil {
			return err
		}

		itemIDs := make([]uuid.UUID, 0, len(sale.Items))
		for idx := range sale.Items {
			itemIDs = append(itemIDs, sale.Items[idx].ID)
		}
		returned, err := repos.Returns().ReturnedQuantityBySaleItem(ctx, itemIDs)
		if err != nil {
			return fmt.Errorf("failed to load prior returns: %w", err)
		}

		items = make([]ReturnItemInput, 0, len(sale.Items))
		for idx := range sale.Items {
			item := &sale.Items[idx]
			remaining := item.Quantity.Sub(returned[item.ID])
			if remaining.LessThanOrEqual(QtyTolerance) {
				continue
			}

			serials, err := repos.Serials().FindBySaleItem(ctx, item.ID)
			if err != nil {
				return fmt.Errorf("failed to load item serials: %w", err)
			}
			serialIDs := make([]uuid.UUID, 0, len(serials))
			for sIdx := range serials {
				if serials[sIdx].IsSold() {
					serialIDs = append(serialIDs, serials[sIdx].ID)
				}
			}

			items = append(items, ReturnItemInput{
				SaleItemID: item.ID,
				Quantity:   remaining,
				SerialIDs:  serialIDs,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// loadDebt fetches the sale's debt and its payment count; absence of a
// debt is a normal state, not an error.
func loadDebt(ctx context.Context, repos Repos, storeID, saleID uuid.UUID) (*sales.Debt, int64, error) {
	debt, err := repos.Debts().FindBySale(ctx, storeID, saleID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to load debt: %w", err)
	}
	count, err := repos.Debts().CountPayments(ctx, debt.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count debt payments: %w", err)
	}
	return debt, count, nil
}
