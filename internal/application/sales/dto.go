package sales

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnItemInput is one line of a return request
type ReturnItemInput struct {
	SaleItemID uuid.UUID       `json:"sale_item_id" validate:"required"`
	Quantity   decimal.Decimal `json:"qty" validate:"required"`
	SerialIDs  []uuid.UUID     `json:"serial_ids,omitempty"`
	Note       string          `json:"note,omitempty" validate:"max=500"`
}

// ProcessReturnRequest carries a partial-return command
type ProcessReturnRequest struct {
	SaleID uuid.UUID         `json:"sale_id" validate:"required"`
	UserID uuid.UUID         `json:"user_id" validate:"required"`
	Items  []ReturnItemInput `json:"items" validate:"required,min=1,dive"`
	Reason string            `json:"reason,omitempty" validate:"max=500"`
}

// VoidSaleRequest carries a void command
type VoidSaleRequest struct {
	SaleID uuid.UUID `json:"sale_id" validate:"required"`
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Reason string    `json:"reason,omitempty" validate:"max=500"`
}
