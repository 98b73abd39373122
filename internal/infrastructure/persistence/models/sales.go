package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/sales"
	"github.com/lacaja/backend/internal/domain/shared"
	"github.com/lacaja/backend/internal/domain/shared/valueobject"
)

// SaleModel is the persistence model for the Sale aggregate. Monetary
// figures are stored per currency leg in separate columns.
type SaleModel struct {
	StoreAggregateModel
	Items       []SaleItemModel `gorm:"foreignKey:SaleID;references:ID"`
	SubtotalBs  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SubtotalUsd decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountBs  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountUsd decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBs     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalUsd    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Payment     []byte          `gorm:"type:jsonb"`
	InvoiceID   *uuid.UUID      `gorm:"type:uuid;index"`
	VoidedAt    *time.Time      `gorm:"index"`
	VoidedBy    *uuid.UUID      `gorm:"type:uuid"`
	VoidReason  string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale aggregate
func (m *SaleModel) ToDomain() (*sales.Sale, error) {
	var payment sales.PaymentDetails
	if len(m.Payment) > 0 {
		if err := json.Unmarshal(m.Payment, &payment); err != nil {
			return nil, err
		}
	}

	sale := &sales.Sale{
		StoreAggregateRoot: m.ToDomainRoot(),
		Totals: sales.SaleTotals{
			Subtotal: valueobject.NewMoney(m.SubtotalBs, m.SubtotalUsd),
			Discount: valueobject.NewMoney(m.DiscountBs, m.DiscountUsd),
			Total:    valueobject.NewMoney(m.TotalBs, m.TotalUsd),
		},
		Payment:    payment,
		InvoiceID:  m.InvoiceID,
		VoidedAt:   m.VoidedAt,
		VoidedBy:   m.VoidedBy,
		VoidReason: m.VoidReason,
		Items:      make([]sales.SaleItem, len(m.Items)),
	}
	for i := range m.Items {
		sale.Items[i] = *m.Items[i].ToDomain()
	}
	return sale, nil
}

// FromDomain populates the persistence model from a domain Sale aggregate
func (m *SaleModel) FromDomain(s *sales.Sale) error {
	payment, err := json.Marshal(s.Payment)
	if err != nil {
		return err
	}

	m.FromDomainRoot(s.StoreAggregateRoot)
	m.SubtotalBs = s.Totals.Subtotal.Bs()
	m.SubtotalUsd = s.Totals.Subtotal.Usd()
	m.DiscountBs = s.Totals.Discount.Bs()
	m.DiscountUsd = s.Totals.Discount.Usd()
	m.TotalBs = s.Totals.Total.Bs()
	m.TotalUsd = s.Totals.Total.Usd()
	m.Payment = payment
	m.InvoiceID = s.InvoiceID
	m.VoidedAt = s.VoidedAt
	m.VoidedBy = s.VoidedBy
	m.VoidReason = s.VoidReason
	m.Items = make([]SaleItemModel, len(s.Items))
	for i := range s.Items {
		m.Items[i].FromDomain(&s.Items[i])
	}
	return nil
}

// SaleItemModel is the persistence model for a sale line item
type SaleItemModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	SaleID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariantID       *uuid.UUID      `gorm:"type:uuid"`
	LotID           *uuid.UUID      `gorm:"type:uuid"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPriceBs     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPriceUsd    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountBs      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountUsd     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsWeightProduct bool            `gorm:"not null;default:false"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleItemModel) TableName() string {
	return "sale_items"
}

// ToDomain converts the persistence model to a domain SaleItem
func (m *SaleItemModel) ToDomain() *sales.SaleItem {
	return &sales.SaleItem{
		ID:              m.ID,
		SaleID:          m.SaleID,
		ProductID:       m.ProductID,
		VariantID:       m.VariantID,
		LotID:           m.LotID,
		Quantity:        m.Quantity,
		UnitPrice:       valueobject.NewMoney(m.UnitPriceBs, m.UnitPriceUsd),
		Discount:        valueobject.NewMoney(m.DiscountBs, m.DiscountUsd),
		IsWeightProduct: m.IsWeightProduct,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain SaleItem
func (m *SaleItemModel) FromDomain(i *sales.SaleItem) {
	m.ID = i.ID
	m.SaleID = i.SaleID
	m.ProductID = i.ProductID
	m.VariantID = i.VariantID
	m.LotID = i.LotID
	m.Quantity = i.Quantity
	m.UnitPriceBs = i.UnitPrice.Bs()
	m.UnitPriceUsd = i.UnitPrice.Usd()
	m.DiscountBs = i.Discount.Bs()
	m.DiscountUsd = i.Discount.Usd()
	m.IsWeightProduct = i.IsWeightProduct
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt
}

// SaleReturnModel is the persistence model for a return header
type SaleReturnModel struct {
	StoreAggregateModel
	SaleID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Reason      string                `gorm:"type:varchar(500)"`
	SubtotalBs  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	SubtotalUsd decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountBs  decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountUsd decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBs     decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	TotalUsd    decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Items       []SaleReturnItemModel `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleReturnModel) TableName() string {
	return "sale_returns"
}

// ToDomain converts the persistence model to a domain SaleReturn
func (m *SaleReturnModel) ToDomain() (*sales.SaleReturn, error) {
	sr := &sales.SaleReturn{
		StoreAggregateRoot: m.ToDomainRoot(),
		SaleID:             m.SaleID,
		Reason:             m.Reason,
		Totals: sales.SaleTotals{
			Subtotal: valueobject.NewMoney(m.SubtotalBs, m.SubtotalUsd),
			Discount: valueobject.NewMoney(m.DiscountBs, m.DiscountUsd),
			Total:    valueobject.NewMoney(m.TotalBs, m.TotalUsd),
		},
		Items: make([]sales.SaleReturnItem, len(m.Items)),
	}
	for i := range m.Items {
		item, err := m.Items[i].ToDomain()
		if err != nil {
			return nil, err
		}
		sr.Items[i] = *item
	}
	return sr, nil
}

// FromDomain populates the persistence model from a domain SaleReturn
func (m *SaleReturnModel) FromDomain(sr *sales.SaleReturn) error {
	m.FromDomainRoot(sr.StoreAggregateRoot)
	m.SaleID = sr.SaleID
	m.Reason = sr.Reason
	m.SubtotalBs = sr.Totals.Subtotal.Bs()
	m.SubtotalUsd = sr.Totals.Subtotal.Usd()
	m.DiscountBs = sr.Totals.Discount.Bs()
	m.DiscountUsd = sr.Totals.Discount.Usd()
	m.TotalBs = sr.Totals.Total.Bs()
	m.TotalUsd = sr.Totals.Total.Usd()
	m.Items = make([]SaleReturnItemModel, len(sr.Items))
	for i := range sr.Items {
		if err := m.Items[i].FromDomain(&sr.Items[i]); err != nil {
			return err
		}
	}
	return nil
}

// SaleReturnItemModel is the persistence model for one returned line.
// Serial IDs are stored as a JSONB array.
type SaleReturnItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	ReturnID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	VariantID    *uuid.UUID      `gorm:"type:uuid"`
	LotID        *uuid.UUID      `gorm:"type:uuid"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPriceBs  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPriceUsd decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountBs   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountUsd  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	TotalBs      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalUsd     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	SerialIDs    []byte          `gorm:"type:jsonb"`
	Note         string          `gorm:"type:varchar(500)"`
	CreatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SaleReturnItemModel) TableName() string {
	return "sale_return_items"
}

// ToDomain converts the persistence model to a domain SaleReturnItem
func (m *SaleReturnItemModel) ToDomain() (*sales.SaleReturnItem, error) {
	var serialIDs []uuid.UUID
	if len(m.SerialIDs) > 0 {
		if err := json.Unmarshal(m.SerialIDs, &serialIDs); err != nil {
			return nil, err
		}
	}
	return &sales.SaleReturnItem{
		ID:         m.ID,
		ReturnID:   m.ReturnID,
		SaleItemID: m.SaleItemID,
		ProductID:  m.ProductID,
		VariantID:  m.VariantID,
		LotID:      m.LotID,
		Quantity:   m.Quantity,
		UnitPrice:  valueobject.NewMoney(m.UnitPriceBs, m.UnitPriceUsd),
		Discount:   valueobject.NewMoney(m.DiscountBs, m.DiscountUsd),
		Total:      valueobject.NewMoney(m.TotalBs, m.TotalUsd),
		SerialIDs:  serialIDs,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}, nil
}

// FromDomain populates the persistence model from a domain SaleReturnItem
func (m *SaleReturnItemModel) FromDomain(i *sales.SaleReturnItem) error {
	var serialIDs []byte
	if len(i.SerialIDs) > 0 {
		data, err := json.Marshal(i.SerialIDs)
		if err != nil {
			return err
		}
		serialIDs = data
	}
	m.ID = i.ID
	m.ReturnID = i.ReturnID
	m.SaleItemID = i.SaleItemID
	m.ProductID = i.ProductID
	m.VariantID = i.VariantID
	m.LotID = i.LotID
	m.Quantity = i.Quantity
	m.UnitPriceBs = i.UnitPrice.Bs()
	m.UnitPriceUsd = i.UnitPrice.Usd()
	m.DiscountBs = i.Discount.Bs()
	m.DiscountUsd = i.Discount.Usd()
	m.TotalBs = i.Total.Bs()
	m.TotalUsd = i.Total.Usd()
	m.SerialIDs = serialIDs
	m.Note = i.Note
	m.CreatedAt = i.CreatedAt
	return nil
}

// ProductSerialModel is the persistence model for serialized units
type ProductSerialModel struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key"`
	StoreID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID          `gorm:"type:uuid;not null;index"`
	SerialNumber string             `gorm:"type:varchar(100);not null;uniqueIndex:idx_serial_store_number,priority:2"`
	Status       sales.SerialStatus `gorm:"type:varchar(20);not null;default:'available'"`
	SaleID       *uuid.UUID         `gorm:"type:uuid;index"`
	SaleItemID   *uuid.UUID         `gorm:"type:uuid;index"`
	SoldAt       *time.Time
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductSerialModel) TableName() string {
	return "product_serials"
}

// ToDomain converts the persistence model to a domain ProductSerial
func (m *ProductSerialModel) ToDomain() *sales.ProductSerial {
	return &sales.ProductSerial{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		StoreID:      m.StoreID,
		ProductID:    m.ProductID,
		SerialNumber: m.SerialNumber,
		Status:       m.Status,
		SaleID:       m.SaleID,
		SaleItemID:   m.SaleItemID,
		SoldAt:       m.SoldAt,
	}
}

// FromDomain populates the persistence model from a domain ProductSerial
func (m *ProductSerialModel) FromDomain(s *sales.ProductSerial) {
	m.ID = s.ID
	m.StoreID = s.StoreID
	m.ProductID = s.ProductID
	m.SerialNumber = s.SerialNumber
	m.Status = s.Status
	m.SaleID = s.SaleID
	m.SaleItemID = s.SaleItemID
	m.SoldAt = s.SoldAt
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}

// ProductLotModel is the persistence model for inventory lots
type ProductLotModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primary_key"`
	StoreID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LotNumber         string          `gorm:"type:varchar(100);not null"`
	RemainingQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductLotModel) TableName() string {
	return "product_lots"
}

// ToDomain converts the persistence model to a domain ProductLot
func (m *ProductLotModel) ToDomain() *sales.ProductLot {
	return &sales.ProductLot{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		StoreID:           m.StoreID,
		ProductID:         m.ProductID,
		LotNumber:         m.LotNumber,
		RemainingQuantity: m.RemainingQuantity,
	}
}

// FromDomain populates the persistence model from a domain ProductLot
func (m *ProductLotModel) FromDomain(l *sales.ProductLot) {
	m.ID = l.ID
	m.StoreID = l.StoreID
	m.ProductID = l.ProductID
	m.LotNumber = l.LotNumber
	m.RemainingQuantity = l.RemainingQuantity
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// LotMovementModel is the persistence model for the lot ledger
type LotMovementModel struct {
	ID         uuid.UUID             `gorm:"type:uuid;primary_key"`
	LotID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Type       sales.LotMovementType `gorm:"type:varchar(20);not null"`
	QtyDelta   decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	HappenedAt time.Time             `gorm:"not null"`
	SaleID     *uuid.UUID            `gorm:"type:uuid;index"`
	Note       string                `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (LotMovementModel) TableName() string {
	return "lot_movements"
}

// FromDomain populates the persistence model from a domain LotMovement
func (m *LotMovementModel) FromDomain(lm *sales.LotMovement) {
	m.ID = lm.ID
	m.LotID = lm.LotID
	m.Type = lm.Type
	m.QtyDelta = lm.QtyDelta
	m.HappenedAt = lm.HappenedAt
	m.SaleID = lm.SaleID
	m.Note = lm.Note
}

// DebtModel is the persistence model for pay-later balances
type DebtModel struct {
	StoreAggregateModel
	SaleID     uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex"`
	CustomerID *uuid.UUID       `gorm:"type:uuid;index"`
	AmountBs   decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	AmountUsd  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	Status     sales.DebtStatus `gorm:"type:varchar(20);not null;default:'open'"`
}

// TableName returns the table name for GORM
func (DebtModel) TableName() string {
	return "debts"
}

// ToDomain converts the persistence model to a domain Debt
func (m *DebtModel) ToDomain() *sales.Debt {
	return &sales.Debt{
		StoreAggregateRoot: m.ToDomainRoot(),
		SaleID:             m.SaleID,
		CustomerID:         m.CustomerID,
		Amount:             valueobject.NewMoney(m.AmountBs, m.AmountUsd),
		Status:             m.Status,
	}
}

// FromDomain populates the persistence model from a domain Debt
func (m *DebtModel) FromDomain(d *sales.Debt) {
	m.FromDomainRoot(d.StoreAggregateRoot)
	m.SaleID = d.SaleID
	m.CustomerID = d.CustomerID
	m.AmountBs = d.Amount.Bs()
	m.AmountUsd = d.Amount.Usd()
	m.Status = d.Status
}

// DebtPaymentModel is the persistence model for payments against a debt
type DebtPaymentModel struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key"`
	DebtID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	AmountBs  decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	AmountUsd decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Method    sales.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaidAt    time.Time           `gorm:"not null"`
	Note      string              `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (DebtPaymentModel) TableName() string {
	return "debt_payments"
}

// FiscalInvoiceModel is the persistence model for fiscal documents
type FiscalInvoiceModel struct {
	StoreAggregateModel
	SaleID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	InvoiceNumber string              `gorm:"type:varchar(50);not null"`
	Type          sales.InvoiceType   `gorm:"type:varchar(20);not null"`
	Status        sales.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft'"`
}

// TableName returns the table name for GORM
func (FiscalInvoiceModel) TableName() string {
	return "fiscal_invoices"
}

// ToDomain converts the persistence model to a domain FiscalInvoice
func (m *FiscalInvoiceModel) ToDomain() *sales.FiscalInvoice {
	return &sales.FiscalInvoice{
		StoreAggregateRoot: m.ToDomainRoot(),
		SaleID:             m.SaleID,
		InvoiceNumber:      m.InvoiceNumber,
		Type:               m.Type,
		Status:             m.Status,
	}
}
