package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lacaja/backend/internal/domain/inventory"
)

// InventoryMovementModel is the persistence model for the stock ledger.
// The Ref column relies on MovementRef's Valuer/Scanner for JSONB mapping.
type InventoryMovementModel struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key"`
	StoreID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	VariantID   *uuid.UUID             `gorm:"type:uuid"`
	WarehouseID *uuid.UUID             `gorm:"type:uuid;index"`
	Type        inventory.MovementType `gorm:"type:varchar(20);not null"`
	QtyDelta    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	UnitCostBs  decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	UnitCostUsd decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Note        string                 `gorm:"type:varchar(500)"`
	Ref         inventory.MovementRef  `gorm:"type:jsonb"`
	HappenedAt  time.Time              `gorm:"not null"`
	Approved    bool                   `gorm:"not null;default:false"`
	RequestedBy *uuid.UUID             `gorm:"type:uuid"`
	ApprovedBy  *uuid.UUID             `gorm:"type:uuid"`
	ApprovedAt  *time.Time
	CreatedAt   time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (InventoryMovementModel) TableName() string {
	return "inventory_movements"
}

// ToDomain converts the persistence model to a domain InventoryMovement
func (m *InventoryMovementModel) ToDomain() *inventory.InventoryMovement {
	return &inventory.InventoryMovement{
		ID:          m.ID,
		StoreID:     m.StoreID,
		ProductID:   m.ProductID,
		VariantID:   m.VariantID,
		WarehouseID: m.WarehouseID,
		Type:        m.Type,
		QtyDelta:    m.QtyDelta,
		UnitCostBs:  m.UnitCostBs,
		UnitCostUsd: m.UnitCostUsd,
		Note:        m.Note,
		Ref:         m.Ref,
		HappenedAt:  m.HappenedAt,
		Approved:    m.Approved,
		RequestedBy: m.RequestedBy,
		ApprovedBy:  m.ApprovedBy,
		ApprovedAt:  m.ApprovedAt,
		CreatedAt:   m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain InventoryMovement
func (m *InventoryMovementModel) FromDomain(mv *inventory.InventoryMovement) {
	m.ID = mv.ID
	m.StoreID = mv.StoreID
	m.ProductID = mv.ProductID
	m.VariantID = mv.VariantID
	m.WarehouseID = mv.WarehouseID
	m.Type = mv.Type
	m.QtyDelta = mv.QtyDelta
	m.UnitCostBs = mv.UnitCostBs
	m.UnitCostUsd = mv.UnitCostUsd
	m.Note = mv.Note
	m.Ref = mv.Ref
	m.HappenedAt = mv.HappenedAt
	m.Approved = mv.Approved
	m.RequestedBy = mv.RequestedBy
	m.ApprovedBy = mv.ApprovedBy
	m.ApprovedAt = mv.ApprovedAt
	m.CreatedAt = mv.CreatedAt
}
